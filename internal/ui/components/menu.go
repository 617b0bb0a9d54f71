// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/inkwell/internal/assist"
	"github.com/jeranaias/inkwell/internal/ui/styles"
)

// =============================================================================
// ASSIST MENU COMPONENT
// =============================================================================

// Menu is the floating assist menu. It lists the quick actions plus a
// free-form prompt entry at the bottom.
type Menu struct {
	actions []assist.Action
	cursor  int
	theme   *styles.Theme
}

// NewMenu creates the assist menu.
func NewMenu(theme *styles.Theme) *Menu {
	return &Menu{
		actions: assist.Actions(),
		theme:   theme,
	}
}

// Reset moves the cursor back to the first item.
func (m *Menu) Reset() {
	m.cursor = 0
}

// itemCount is the action list plus the custom prompt entry.
func (m *Menu) itemCount() int {
	return len(m.actions) + 1
}

// Update handles navigation keys.
func (m *Menu) Update(msg tea.Msg) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.itemCount()-1 {
			m.cursor++
		}
	}
}

// Selected returns the action under the cursor, or ActionNone when the
// custom prompt entry is selected.
func (m *Menu) Selected() assist.Action {
	if m.cursor >= len(m.actions) {
		return assist.ActionNone
	}
	return m.actions[m.cursor]
}

// IsCustomSelected reports whether the free-form prompt entry is
// under the cursor.
func (m *Menu) IsCustomSelected() bool {
	return m.cursor >= len(m.actions)
}

// Render draws the menu box.
func (m *Menu) Render() string {
	var sb strings.Builder

	for i, action := range m.actions {
		label := action.Label()
		if i == m.cursor {
			sb.WriteString(m.theme.MenuItemSelected.Render("> " + label))
		} else {
			sb.WriteString(m.theme.MenuItem.Render("  " + label))
		}
		sb.WriteString("\n")
	}

	customLabel := "Ask anything..."
	if m.IsCustomSelected() {
		sb.WriteString(m.theme.MenuItemSelected.Render("> " + customLabel))
	} else {
		sb.WriteString(m.theme.MenuItem.Render("  " + customLabel))
	}
	sb.WriteString("\n")
	sb.WriteString(m.theme.MenuHint.Render("enter select | esc close"))

	return m.theme.MenuBox.Render(sb.String())
}
