// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/inkwell/internal/assist"
	"github.com/jeranaias/inkwell/internal/editor"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full screen: the editor, any active overlay, and
// the status bar.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sections []string

	editorStyle := m.theme.Editor
	if m.focus == editor.RegionEditor {
		editorStyle = m.theme.EditorFocused
	}
	sections = append(sections, editorStyle.Width(m.width-2).Render(m.textarea.View()))

	if overlay := m.overlayView(); overlay != "" {
		sections = append(sections, overlay)
	}

	m.status.State = m.orch.State()
	m.status.WordCount = m.wordCount()
	sections = append(sections, m.status.Render())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// overlayView renders whichever assist surface is active.
func (m *Model) overlayView() string {
	switch m.orch.State() {
	case assist.StateMenuOpen:
		if m.promptActive {
			return m.prompt.Render()
		}
		return m.menu.Render()

	case assist.StateGenerating, assist.StateResponseReady:
		return m.response.Render()

	case assist.StateDiffOpen:
		return m.diffOverlay()
	}
	return ""
}

// diffOverlay renders the compare view with its decision hints.
func (m *Model) diffOverlay() string {
	var sb strings.Builder

	header := m.theme.DiffHeader.Render("Review suggested change")
	if m.cfg.UI.ShowDiffStats {
		if d := m.diffView.Diff(); d != nil {
			header += "  " + m.theme.DiffStats.Render(d.Summary())
		}
	}
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(m.diffView.Render())
	sb.WriteString("\n")

	hints := []string{
		m.theme.ShortcutKey.Render("enter") + " " + m.theme.ShortcutDesc.Render("accept"),
		m.theme.ShortcutKey.Render("a") + " " + m.theme.ShortcutDesc.Render("append instead"),
		m.theme.ShortcutKey.Render("esc") + " " + m.theme.ShortcutDesc.Render("cancel"),
	}
	sb.WriteString(strings.Join(hints, "  "))

	return m.theme.DiffPanel.Width(m.width - 2).Render(sb.String())
}
