// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the inkwell
// TUI.
//
// Each component is a small bubbletea-style model: a struct holding its
// state, an Update method for messages it cares about, and a Render (or
// View) method producing styled output through the shared theme.
//
// # Components
//
//   - Menu: the floating assist menu with quick actions
//   - Prompt: the single-line prompt input bar
//   - ResponsePanel: the streaming AI response viewer
//   - StatusBar: the bottom bar with state, word count, and shortcuts
//   - CodeBlock: chroma-highlighted code block rendering
//   - Spinner: the generation spinner
package components
