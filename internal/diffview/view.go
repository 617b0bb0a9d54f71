// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diffview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/inkwell/internal/diff"
)

// =============================================================================
// VIEW
// =============================================================================

// View holds the compared texts for the duration of one review. The
// suggested side is editable: the user can touch up the AI's text before
// accepting, and the commit reads the edited version back out.
type View interface {
	// LoadPair sets the original and suggested texts, replacing any
	// previous pair.
	LoadPair(original, modified string)

	// ModifiedText returns the suggested text, including any edits the
	// user made in the pane. Empty after Dispose.
	ModifiedText() string

	// Dispose releases the pair. Safe to call repeatedly.
	Dispose()
}

// =============================================================================
// TERMINAL VIEW
// =============================================================================

var (
	addedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d399")).
			Background(lipgloss.Color("#003300"))
	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb7185")).
			Background(lipgloss.Color("#330000"))
	contextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086"))
	hunkHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#22d3ee")).
			Bold(true)
	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086")).
			Italic(true)
)

// TerminalView renders the comparison for the TUI. It recomputes the
// diff lazily: edits to the suggested text invalidate the cached result.
type TerminalView struct {
	original string
	modified string
	result   *diff.Diff
	loaded   bool
	width    int
}

// NewTerminalView creates an empty view.
func NewTerminalView() *TerminalView {
	return &TerminalView{width: 80}
}

// SetWidth sets the render width.
func (v *TerminalView) SetWidth(width int) {
	if width > 0 {
		v.width = width
	}
}

// LoadPair implements View.
func (v *TerminalView) LoadPair(original, modified string) {
	v.original = original
	v.modified = modified
	v.result = nil
	v.loaded = true
}

// SetModifiedText replaces the suggested side with the user's edit.
func (v *TerminalView) SetModifiedText(text string) {
	if !v.loaded {
		return
	}
	v.modified = text
	v.result = nil
}

// ModifiedText implements View.
func (v *TerminalView) ModifiedText() string {
	if !v.loaded {
		return ""
	}
	return v.modified
}

// Dispose implements View.
func (v *TerminalView) Dispose() {
	v.original = ""
	v.modified = ""
	v.result = nil
	v.loaded = false
}

// Diff returns the computed comparison, or nil when nothing is loaded.
func (v *TerminalView) Diff() *diff.Diff {
	if !v.loaded {
		return nil
	}
	if v.result == nil {
		v.result = diff.Compute(v.original, v.modified)
	}
	return v.result
}

// Render draws the comparison.
func (v *TerminalView) Render() string {
	d := v.Diff()
	if d == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(statsStyle.Render(d.Summary()))
	sb.WriteString("\n")

	if d.Identical() {
		return sb.String()
	}

	for i, hunk := range d.Hunks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(hunkHeaderStyle.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)))
		sb.WriteString("\n")
		for _, line := range hunk.Lines {
			sb.WriteString(renderLine(line))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func renderLine(line diff.Line) string {
	text := line.Type.Prefix() + line.Content
	switch line.Type {
	case diff.LineAdded:
		return addedStyle.Render(text)
	case diff.LineRemoved:
		return removedStyle.Render(text)
	default:
		return contextStyle.Render(text)
	}
}
