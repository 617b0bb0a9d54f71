// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for the inkwell application:
// atomic file writes for the persistence layer and rune/width-aware string
// handling for document positions and terminal rendering.
package util
