// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/inkwell/internal/assist"
	"github.com/jeranaias/inkwell/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom bar showing the interaction state, the word
// count, and context-sensitive shortcuts.
type StatusBar struct {
	State     assist.State
	WordCount int
	Width     int
	Notice    string
	theme     *styles.Theme
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// stateLabel maps the interaction state to a display string.
func stateLabel(s assist.State) string {
	switch s {
	case assist.StateIdle:
		return "Ready"
	case assist.StateMenuOpen:
		return "Assist"
	case assist.StateGenerating:
		return "Generating..."
	case assist.StateResponseReady:
		return "Response ready"
	case assist.StateDiffOpen:
		return "Reviewing changes"
	default:
		return "Ready"
	}
}

// shortcuts returns the shortcut hints for the current state.
func (b *StatusBar) shortcuts() []string {
	switch b.State {
	case assist.StateIdle:
		return []string{"ctrl+k assist", "ctrl+s save", "ctrl+q quit"}
	case assist.StateMenuOpen:
		return []string{"enter select", "esc close"}
	case assist.StateGenerating:
		return []string{"esc stop"}
	case assist.StateResponseReady:
		return []string{"r replace", "i insert", "esc dismiss"}
	case assist.StateDiffOpen:
		return []string{"enter accept", "a append", "esc cancel"}
	default:
		return nil
	}
}

// Render draws the status bar.
func (b *StatusBar) Render() string {
	state := b.theme.StatusState.Render(stateLabel(b.State))

	var middle string
	if b.Notice != "" {
		middle = b.theme.NoticeText.Render(b.Notice)
	} else {
		var parts []string
		for _, sc := range b.shortcuts() {
			key, desc, found := strings.Cut(sc, " ")
			if !found {
				parts = append(parts, sc)
				continue
			}
			parts = append(parts, b.theme.ShortcutKey.Render(key)+" "+b.theme.ShortcutDesc.Render(desc))
		}
		middle = strings.Join(parts, "  ")
	}

	words := b.theme.WordCount.Render(fmt.Sprintf("%d words", b.WordCount))

	left := state + "  " + middle
	gap := b.Width - lipgloss.Width(left) - lipgloss.Width(words) - 2
	if gap < 1 {
		gap = 1
	}

	return b.theme.StatusBar.Width(b.Width).Render(left + strings.Repeat(" ", gap) + words)
}
