// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diff computes line-based diffs between two versions of a
// text, used to show the user what an AI rewrite changed before they
// accept it.
//
// # Key Types
//
//   - LineType: kind of diff line (context, added, removed)
//   - Line: single line with its old and new line numbers
//   - Hunk: contiguous run of changes with surrounding context
//   - Diff: complete result with hunks and counts
//
// # Usage
//
// Compute a diff between the selected text and the AI's rewrite:
//
//	result := diff.Compute(original, rewritten)
//	fmt.Println(result.Summary())
package diff
