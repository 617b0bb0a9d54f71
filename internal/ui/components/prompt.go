// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/inkwell/internal/ui/styles"
)

// =============================================================================
// PROMPT BAR COMPONENT
// =============================================================================

// Prompt is the single-line prompt input shown when the user picks the
// free-form entry from the assist menu.
type Prompt struct {
	input textinput.Model
	theme *styles.Theme
}

// NewPrompt creates the prompt bar.
func NewPrompt(theme *styles.Theme) *Prompt {
	ti := textinput.New()
	ti.Placeholder = "Describe the edit you want"
	ti.CharLimit = 500
	ti.Prompt = ""
	ti.PlaceholderStyle = theme.PromptPlaceholder
	ti.TextStyle = theme.PromptText

	return &Prompt{
		input: ti,
		theme: theme,
	}
}

// Focus gives the prompt keyboard focus and clears previous text.
func (p *Prompt) Focus() tea.Cmd {
	p.input.SetValue("")
	return p.input.Focus()
}

// Blur removes keyboard focus.
func (p *Prompt) Blur() {
	p.input.Blur()
}

// Focused reports whether the prompt has keyboard focus.
func (p *Prompt) Focused() bool {
	return p.input.Focused()
}

// Value returns the current prompt text.
func (p *Prompt) Value() string {
	return p.input.Value()
}

// SetValue replaces the prompt text, for regenerate-with-edits.
func (p *Prompt) SetValue(s string) {
	p.input.SetValue(s)
	p.input.CursorEnd()
}

// SetWidth resizes the input field.
func (p *Prompt) SetWidth(width int) {
	if width > 4 {
		p.input.Width = width - 4
	}
}

// Update forwards messages to the underlying text input.
func (p *Prompt) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// Render draws the prompt bar.
func (p *Prompt) Render() string {
	label := p.theme.PromptLabel.Render("Ask AI ")
	return p.theme.PromptContainer.Render(label + p.input.View())
}
