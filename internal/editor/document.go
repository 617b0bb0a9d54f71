// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

// =============================================================================
// DOCUMENT CAPABILITY INTERFACE
// =============================================================================

// Attributes holds formatting attributes for a span of text, keyed the way
// rich-text editors key them (e.g. "background"). A value of false removes
// the attribute.
type Attributes map[string]interface{}

// Document is the capability interface the AI-edit pipeline consumes.
// The rich-text model behind it (insertion mechanics, formatting storage)
// is a collaborator; the pipeline only relies on this surface.
type Document interface {
	// GetSelection returns the current selection, or nil when the document
	// has no focus/selection.
	GetSelection() *Range

	// GetText returns the text covered by the range. Out-of-bounds spans
	// are clamped to the document.
	GetText(r Range) string

	// InsertText inserts plain text at the given position.
	InsertText(index int, text string)

	// InsertRichContent inserts converted rich content (markdown source) at
	// the given position.
	InsertRichContent(index int, content string)

	// DeleteText removes the text covered by the range.
	DeleteText(r Range)

	// FormatRange applies formatting attributes to the range.
	FormatRange(r Range, attrs Attributes)

	// Length returns the document length in positions.
	Length() int
}

// =============================================================================
// IN-MEMORY BUFFER
// =============================================================================

// Buffer is an in-memory Document backed by a rune slice with per-position
// attributes. It backs the TUI editor surface and the pipeline tests; a
// browser deployment would substitute the real rich-text model instead.
type Buffer struct {
	runes     []rune
	attrs     []Attributes // parallel to runes; nil entry = no formatting
	selection *Range
}

// NewBuffer creates a buffer with the given initial text.
func NewBuffer(text string) *Buffer {
	runes := []rune(text)
	return &Buffer{
		runes: runes,
		attrs: make([]Attributes, len(runes)),
	}
}

// GetSelection returns the current selection, or nil.
func (b *Buffer) GetSelection() *Range {
	if b.selection == nil {
		return nil
	}
	sel := *b.selection
	return &sel
}

// SetSelection sets the current selection. Pass nil to clear it.
func (b *Buffer) SetSelection(r *Range) {
	if r == nil {
		b.selection = nil
		return
	}
	sel := b.clamp(*r)
	b.selection = &sel
}

// GetText returns the text covered by the range, clamped to the document.
func (b *Buffer) GetText(r Range) string {
	r = b.clamp(r)
	return string(b.runes[r.Index:r.End()])
}

// Text returns the full document text.
func (b *Buffer) Text() string {
	return string(b.runes)
}

// InsertText inserts plain text at the given position.
func (b *Buffer) InsertText(index int, text string) {
	if text == "" {
		return
	}
	if index < 0 {
		index = 0
	}
	if index > len(b.runes) {
		index = len(b.runes)
	}
	ins := []rune(text)
	b.runes = append(b.runes[:index], append(append([]rune{}, ins...), b.runes[index:]...)...)

	insAttrs := make([]Attributes, len(ins))
	b.attrs = append(b.attrs[:index], append(insAttrs, b.attrs[index:]...)...)
}

// InsertRichContent inserts converted content at the given position.
// The buffer has no rich model, so the markdown source is inserted as-is;
// a rich-text Document implementation renders it first.
func (b *Buffer) InsertRichContent(index int, content string) {
	b.InsertText(index, content)
}

// DeleteText removes the text covered by the range.
func (b *Buffer) DeleteText(r Range) {
	r = b.clamp(r)
	if r.IsEmpty() {
		return
	}
	b.runes = append(b.runes[:r.Index], b.runes[r.End():]...)
	b.attrs = append(b.attrs[:r.Index], b.attrs[r.End():]...)
}

// FormatRange applies formatting attributes to each position in the range.
// A value of false removes that attribute key.
func (b *Buffer) FormatRange(r Range, attrs Attributes) {
	r = b.clamp(r)
	for i := r.Index; i < r.End(); i++ {
		for key, val := range attrs {
			if val == false {
				if b.attrs[i] != nil {
					delete(b.attrs[i], key)
				}
				continue
			}
			if b.attrs[i] == nil {
				b.attrs[i] = Attributes{}
			}
			b.attrs[i][key] = val
		}
	}
}

// AttributeAt returns the attribute value at a position, or nil.
func (b *Buffer) AttributeAt(pos int, key string) interface{} {
	if pos < 0 || pos >= len(b.attrs) || b.attrs[pos] == nil {
		return nil
	}
	return b.attrs[pos][key]
}

// Length returns the document length in positions.
func (b *Buffer) Length() int {
	return len(b.runes)
}

// clamp bounds a range to the document.
func (b *Buffer) clamp(r Range) Range {
	if r.Index < 0 {
		r.Index = 0
	}
	if r.Index > len(b.runes) {
		r.Index = len(b.runes)
	}
	if r.Length < 0 {
		r.Length = 0
	}
	if r.End() > len(b.runes) {
		r.Length = len(b.runes) - r.Index
	}
	return r
}
