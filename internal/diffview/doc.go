// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package diffview reconciles an AI rewrite against the document. It
// shows the original and suggested text side by side and owns the three
// ways out: replace the original range, append after it, or discard.
// The controller guards each exit so the document is only ever touched
// from a live, still-valid comparison.
package diffview
