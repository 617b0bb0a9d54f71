// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages the lifecycle of a single AI generation: it
// owns the streaming request, accumulates content as deltas arrive, and
// reports progress through snapshots. A session moves through idle,
// streaming, and exactly one terminal state. Aborting is silent: once
// the user cancels, no further snapshots are delivered, including for
// late chunks or errors from the dying transport.
package session
