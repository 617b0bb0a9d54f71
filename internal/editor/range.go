// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import "fmt"

// =============================================================================
// RANGE
// =============================================================================

// Range is a half-open span [Index, Index+Length) over document positions.
type Range struct {
	Index  int `json:"index"`
	Length int `json:"length"`
}

// NewRange creates a range, clamping negative values to zero.
func NewRange(index, length int) Range {
	if index < 0 {
		index = 0
	}
	if length < 0 {
		length = 0
	}
	return Range{Index: index, Length: length}
}

// End returns the exclusive end position of the range.
func (r Range) End() int {
	return r.Index + r.Length
}

// IsEmpty reports whether the range covers no positions (caret-only).
func (r Range) IsEmpty() bool {
	return r.Length == 0
}

// Contains reports whether pos falls inside the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.Index && pos < r.End()
}

// Overlaps reports whether two ranges share at least one position.
// Empty ranges never overlap anything.
func (r Range) Overlaps(other Range) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.Index < other.End() && other.Index < r.End()
}

// Valid reports whether the range satisfies its invariants.
func (r Range) Valid() bool {
	return r.Index >= 0 && r.Length >= 0
}

// String returns a compact representation for logs.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Index, r.End())
}
