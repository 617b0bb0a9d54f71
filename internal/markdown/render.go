// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// TERMINAL RENDERER
// =============================================================================

// Renderer renders markdown for the response panel.
type Renderer struct {
	term  *glamour.TermRenderer
	width int
}

// NewRenderer creates a renderer wrapping at the given width. A failed
// glamour init degrades to passing text through unstyled.
func NewRenderer(width int) *Renderer {
	if width <= 0 {
		width = 80
	}
	term, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		term = nil
	}
	return &Renderer{term: term, width: width}
}

// Render returns the styled terminal form of the markdown. On any
// rendering failure the raw text comes back instead; a response must
// never be lost to a styling problem.
func (r *Renderer) Render(content string) string {
	if r.term == nil {
		return content
	}
	out, err := r.term.Render(content)
	if err != nil {
		return content
	}
	return out
}

// =============================================================================
// DOCUMENT CONVERSION
// =============================================================================

// Converter resolves markdown into plain document prose. It satisfies
// the orchestrator's MarkdownConverter.
type Converter struct {
	plain *glamour.TermRenderer
}

// NewConverter creates a converter.
func NewConverter() *Converter {
	// The notty style resolves markup (emphasis, headings, lists)
	// without emitting escape codes.
	plain, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		plain = nil
	}
	return &Converter{plain: plain}
}

// ToRichText converts markdown into text ready for document insertion.
func (c *Converter) ToRichText(markdown string) (string, error) {
	if c.plain == nil {
		return markdown, nil
	}
	out, err := c.plain.Render(markdown)
	if err != nil {
		return markdown, nil
	}
	return tidy(out), nil
}

// ToMarkdown returns the document text as markdown. The document model
// holds plain prose, so this is the identity apart from trimming.
func ToMarkdown(richContent string) string {
	return strings.TrimRight(richContent, "\n")
}

// tidy strips glamour's terminal margins: the leading indent on each
// line and the blank padding around the block.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, "  ")
	}
	out := strings.Join(lines, "\n")
	return strings.Trim(out, "\n")
}
