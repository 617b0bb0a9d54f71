// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the top-level Bubble Tea model for inkwell.
//
// The model owns the editing surface (a textarea mirrored into the
// editor buffer the assistant works on), the assist orchestrator, and
// the overlay components: the assist menu, the prompt bar, the response
// panel, and the diff view. Key handling is state-driven; each
// interaction state exposes its own shortcut set, shown in the status
// bar.
//
// Orchestrator updates arrive from streaming goroutines through an
// internal channel so the Bubble Tea event loop repaints as deltas
// land.
package app
