// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

// =============================================================================
// FOCUS REGIONS
// =============================================================================

// FocusRegion identifies which UI surface currently holds focus. The
// pipeline never touches a rendering layer directly; the UI reports the
// active region through a query function.
type FocusRegion int

const (
	RegionNone FocusRegion = iota
	RegionEditor
	RegionPromptInput
	RegionFloatingPanel
	RegionMenu
	RegionResponsePanel
	RegionColorPicker
	RegionBackgroundPicker
)

// String returns the region name for logs.
func (r FocusRegion) String() string {
	switch r {
	case RegionNone:
		return "none"
	case RegionEditor:
		return "editor"
	case RegionPromptInput:
		return "prompt-input"
	case RegionFloatingPanel:
		return "floating-panel"
	case RegionMenu:
		return "menu"
	case RegionResponsePanel:
		return "response-panel"
	case RegionColorPicker:
		return "color-picker"
	case RegionBackgroundPicker:
		return "background-picker"
	default:
		return "unknown"
	}
}

// InExclusionSet reports whether the region belongs to the set of surfaces
// whose focus must not tear down the highlight: the prompt input, the
// floating panel, the menu, the response panel, and the color/background
// pickers. Keeping the highlight alive while the user adjusts formatting
// controls on the same selection avoids flicker.
func (r FocusRegion) InExclusionSet() bool {
	switch r {
	case RegionPromptInput, RegionFloatingPanel, RegionMenu,
		RegionResponsePanel, RegionColorPicker, RegionBackgroundPicker:
		return true
	default:
		return false
	}
}

// =============================================================================
// HIGHLIGHTER
// =============================================================================

// HighlightColor is the background attribute value marking a range as
// under AI consideration.
const HighlightColor = "rgba(180, 213, 254, 0.5)"

// FocusQuery reports which UI region currently has focus.
type FocusQuery func() FocusRegion

// Highlighter marks and unmarks a single document range as "under AI
// consideration". At most one highlighted range exists at a time; applying
// a new one supersedes the previous.
type Highlighter struct {
	doc    Document
	focus  FocusQuery
	active *Range
}

// NewHighlighter creates a highlighter over the given document. The focus
// query may be nil, in which case clears are never suppressed.
func NewHighlighter(doc Document, focus FocusQuery) *Highlighter {
	return &Highlighter{doc: doc, focus: focus}
}

// Apply highlights the given range. Empty ranges are a no-op. Any
// previously highlighted range is unmarked first.
func (h *Highlighter) Apply(r Range) {
	if r.IsEmpty() {
		return
	}
	if h.active != nil {
		h.doc.FormatRange(*h.active, Attributes{"background": false})
	}
	h.doc.FormatRange(r, Attributes{"background": HighlightColor})
	active := r
	h.active = &active
}

// Clear removes the highlight for the range unless focus currently sits
// inside the exclusion set (see FocusRegion.InExclusionSet).
func (h *Highlighter) Clear(r Range) {
	if h.focus != nil && h.focus().InExclusionSet() {
		return
	}
	h.clear(r)
}

// ForceClear removes the highlight unconditionally. Commit paths use this:
// once an edit lands, the highlight must go regardless of focus.
func (h *Highlighter) ForceClear(r Range) {
	h.clear(r)
}

// Active returns the currently highlighted range, or nil.
func (h *Highlighter) Active() *Range {
	if h.active == nil {
		return nil
	}
	active := *h.active
	return &active
}

func (h *Highlighter) clear(r Range) {
	// Prefer the recorded range; the caller's copy may be stale if the
	// document shifted underneath it.
	if h.active != nil {
		h.doc.FormatRange(*h.active, Attributes{"background": false})
	} else {
		h.doc.FormatRange(r, Attributes{"background": false})
	}
	h.active = nil
}
