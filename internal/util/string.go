// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"github.com/mattn/go-runewidth"
)

// Document positions throughout inkwell are rune indices, not byte offsets.
// These helpers keep slicing and truncation rune-safe so multi-byte UTF-8
// text (including CJK prose) is never split mid-character.

// TruncateRunes truncates a string to a maximum number of runes.
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// SafeSubstring returns a substring using rune indices (not byte indices).
func SafeSubstring(s string, start, end int) string {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		return ""
	}
	if end < 0 || end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

// RuneCount returns the number of runes in a string.
func RuneCount(s string) int {
	return len([]rune(s))
}

// TruncateWidth truncates a string to a maximum display width, accounting
// for double-width (CJK) characters.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// StringWidth returns the display width of a string. Double-width
// characters count as 2 columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}
