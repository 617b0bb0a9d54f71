// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/inkwell/internal/markdown"
	"github.com/jeranaias/inkwell/internal/ui/styles"
)

// =============================================================================
// RESPONSE PANEL COMPONENT
// =============================================================================

// ResponsePanel shows the AI response while it streams in and after it
// completes, rendered as markdown.
type ResponsePanel struct {
	theme    *styles.Theme
	renderer *markdown.Renderer
	spinner  *Spinner

	title      string
	content    string
	generating bool
	canCompare bool
	width      int
}

// NewResponsePanel creates the response panel.
func NewResponsePanel(theme *styles.Theme) *ResponsePanel {
	return &ResponsePanel{
		theme:    theme,
		renderer: markdown.NewRenderer(78),
		spinner:  NewSpinner(theme),
		title:    "AI Response",
		width:    80,
	}
}

// Spinner exposes the panel's spinner for tick plumbing.
func (p *ResponsePanel) Spinner() *Spinner {
	return p.spinner
}

// SetWidth resizes the panel and its markdown wrap width.
func (p *ResponsePanel) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	p.width = width
	p.renderer = markdown.NewRenderer(width - 6)
}

// SetTitle sets the panel header, usually the action label.
func (p *ResponsePanel) SetTitle(title string) {
	if title != "" {
		p.title = title
	}
}

// SetContent replaces the response text.
func (p *ResponsePanel) SetContent(content string) {
	p.content = content
}

// SetGenerating toggles the streaming state.
func (p *ResponsePanel) SetGenerating(generating bool) {
	p.generating = generating
	if !generating {
		p.spinner.Stop()
	}
}

// SetCanCompare toggles the compare hint in the footer.
func (p *ResponsePanel) SetCanCompare(can bool) {
	p.canCompare = can
}

// Reset clears the panel for the next generation.
func (p *ResponsePanel) Reset() {
	p.content = ""
	p.title = "AI Response"
	p.generating = false
	p.canCompare = false
	p.spinner.Stop()
}

// Render draws the panel.
func (p *ResponsePanel) Render() string {
	var sections []string

	sections = append(sections, p.theme.ResponseTitle.Render(p.title))

	switch {
	case p.content == "" && p.generating:
		sections = append(sections, p.spinner.Render())
	case p.content != "":
		body := p.renderer.Render(p.content)
		sections = append(sections, strings.TrimRight(body, "\n"))
		if p.generating {
			sections = append(sections, p.spinner.Render())
		}
	}

	if !p.generating && p.content != "" {
		sections = append(sections, p.footer())
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return p.theme.ResponsePanel.Width(p.width - 2).Render(joined)
}

// footer lists the available decisions for a completed response.
func (p *ResponsePanel) footer() string {
	hints := []string{
		p.hint("r", "replace"),
		p.hint("i", "insert below"),
	}
	if p.canCompare {
		hints = append(hints, p.hint("d", "compare"))
	}
	hints = append(hints,
		p.hint("y", "copy"),
		p.hint("g", "regenerate"),
		p.hint("esc", "dismiss"),
	)
	return strings.Join(hints, "  ")
}

func (p *ResponsePanel) hint(key, desc string) string {
	return p.theme.ShortcutKey.Render(key) + " " + p.theme.ShortcutDesc.Render(desc)
}
