// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings for the editor and its overlays.
type KeyMap struct {
	Assist     key.Binding
	Mark       key.Binding
	Save       key.Binding
	Quit       key.Binding
	Cancel     key.Binding
	Submit     key.Binding
	Replace    key.Binding
	Insert     key.Binding
	Compare    key.Binding
	Copy       key.Binding
	Regenerate key.Binding
	Append     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Assist: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("C-k", "assist menu"),
		),
		Mark: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("C-space", "set selection mark"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "save draft"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("C-q", "quit"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "submit"),
		),
		Replace: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "replace selection"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert below"),
		),
		Compare: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "compare"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Regenerate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "regenerate"),
		),
		Append: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "append instead"),
		),
	}
}
