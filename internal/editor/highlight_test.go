// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import "testing"

func TestHighlighter_ApplyAndClear(t *testing.T) {
	b := NewBuffer("Hello world")
	focus := RegionEditor
	h := NewHighlighter(b, func() FocusRegion { return focus })

	h.Apply(Range{0, 5})
	if got := b.AttributeAt(2, "background"); got != HighlightColor {
		t.Fatalf("highlight not applied: %v", got)
	}
	if h.Active() == nil {
		t.Fatal("Active() should report the highlighted range")
	}

	h.Clear(Range{0, 5})
	if got := b.AttributeAt(2, "background"); got != nil {
		t.Errorf("highlight not cleared: %v", got)
	}
	if h.Active() != nil {
		t.Error("Active() should be nil after clear")
	}
}

func TestHighlighter_EmptyRangeNoop(t *testing.T) {
	b := NewBuffer("Hello world")
	h := NewHighlighter(b, nil)

	h.Apply(Range{3, 0})
	if h.Active() != nil {
		t.Error("empty range must not be highlighted")
	}
}

func TestHighlighter_SingleSlot(t *testing.T) {
	b := NewBuffer("Hello world")
	h := NewHighlighter(b, nil)

	h.Apply(Range{0, 5})
	h.Apply(Range{6, 5})

	// The first highlight is superseded, not stacked.
	if got := b.AttributeAt(2, "background"); got != nil {
		t.Errorf("previous highlight should be removed, got %v", got)
	}
	if got := b.AttributeAt(8, "background"); got != HighlightColor {
		t.Errorf("new highlight missing, got %v", got)
	}
}

func TestHighlighter_ClearSuppressedByExclusionSet(t *testing.T) {
	excluded := []FocusRegion{
		RegionPromptInput,
		RegionFloatingPanel,
		RegionMenu,
		RegionResponsePanel,
		RegionColorPicker,
		RegionBackgroundPicker,
	}

	for _, region := range excluded {
		t.Run(region.String(), func(t *testing.T) {
			b := NewBuffer("Hello world")
			focus := region
			h := NewHighlighter(b, func() FocusRegion { return focus })

			h.Apply(Range{0, 5})
			h.Clear(Range{0, 5})

			// Focus is inside the exclusion set: highlight stays.
			if got := b.AttributeAt(2, "background"); got != HighlightColor {
				t.Errorf("highlight removed while focus in %v", region)
			}

			// Once focus leaves the set the clear goes through.
			focus = RegionEditor
			h.Clear(Range{0, 5})
			if got := b.AttributeAt(2, "background"); got != nil {
				t.Errorf("highlight not removed after focus left exclusion set")
			}
		})
	}
}

func TestHighlighter_ForceClearIgnoresFocus(t *testing.T) {
	b := NewBuffer("Hello world")
	h := NewHighlighter(b, func() FocusRegion { return RegionPromptInput })

	h.Apply(Range{0, 5})
	h.ForceClear(Range{0, 5})

	if got := b.AttributeAt(2, "background"); got != nil {
		t.Errorf("ForceClear must remove the highlight regardless of focus")
	}
}
