// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package editor defines the document model the AI-edit pipeline operates on:
// the Range value type, the Document capability interface consumed by the
// orchestrator and diff controller, an in-memory Buffer implementation, and
// the selection Highlighter.
//
// All positions are rune indices into the document, never byte offsets.
// Ranges are only meaningful against the document snapshot they were taken
// from; callers must discard stored ranges after mutations they did not
// perform themselves.
package editor
