// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"strings"
	"testing"
)

func TestCompute_OnlyAdditions(t *testing.T) {
	d := Compute("", "line1\nline2\nline3")

	if d.Stats.Additions != 3 {
		t.Errorf("Expected 3 additions, got %d", d.Stats.Additions)
	}
	if d.Stats.Deletions != 0 {
		t.Errorf("Expected 0 deletions, got %d", d.Stats.Deletions)
	}
}

func TestCompute_OnlyDeletions(t *testing.T) {
	d := Compute("line1\nline2\nline3", "")

	if d.Stats.Additions != 0 {
		t.Errorf("Expected 0 additions, got %d", d.Stats.Additions)
	}
	if d.Stats.Deletions != 3 {
		t.Errorf("Expected 3 deletions, got %d", d.Stats.Deletions)
	}
}

func TestCompute_Rewrite(t *testing.T) {
	original := "The cat sat.\nIt was grey.\nThe end."
	rewritten := "The cat sat.\nIts coat was a soft grey.\nThe end.\nReally."

	d := Compute(original, rewritten)

	if d.Stats.Additions != 2 {
		t.Errorf("Expected 2 additions, got %d", d.Stats.Additions)
	}
	if d.Stats.Deletions != 1 {
		t.Errorf("Expected 1 deletion, got %d", d.Stats.Deletions)
	}
	if d.Identical() {
		t.Error("Changed texts should not be identical")
	}
}

func TestCompute_NoChanges(t *testing.T) {
	text := "line1\nline2\nline3"
	d := Compute(text, text)

	if !d.Identical() {
		t.Errorf("Expected identical, got stats %+v", d.Stats)
	}
	if len(d.Hunks) != 0 {
		t.Errorf("Expected no hunks, got %d", len(d.Hunks))
	}
}

func TestLineType_String(t *testing.T) {
	tests := []struct {
		lineType LineType
		expected string
	}{
		{LineContext, "context"},
		{LineAdded, "added"},
		{LineRemoved, "removed"},
	}

	for _, tt := range tests {
		if got := tt.lineType.String(); got != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, got)
		}
	}
}

func TestLineType_Prefix(t *testing.T) {
	tests := []struct {
		lineType LineType
		expected string
	}{
		{LineContext, " "},
		{LineAdded, "+"},
		{LineRemoved, "-"},
	}

	for _, tt := range tests {
		if got := tt.lineType.Prefix(); got != tt.expected {
			t.Errorf("Expected '%s', got '%s'", tt.expected, got)
		}
	}
}

func TestFormatUnified(t *testing.T) {
	d := Compute("line1\nline2\nline3", "line1\nmodified\nline3")
	unified := FormatUnified(d, "original", "suggested")

	if !strings.Contains(unified, "--- original") {
		t.Error("Missing old side header")
	}
	if !strings.Contains(unified, "+++ suggested") {
		t.Error("Missing new side header")
	}
	if !strings.Contains(unified, "@@") {
		t.Error("Missing hunk header")
	}
	if !strings.Contains(unified, "-line2") || !strings.Contains(unified, "+modified") {
		t.Errorf("Missing change markers in:\n%s", unified)
	}
}

func TestDiff_Summary(t *testing.T) {
	tests := []struct {
		name     string
		oldText  string
		newText  string
		expected string
	}{
		{"additions only", "", "line1\nline2", "+2"},
		{"deletions only", "line1\nline2", "", "-2"},
		{"mixed", "line1\nline2\nline3", "line1\nmodified\nline3\nline4", "+2 -1"},
		{"no changes", "same", "same", "No changes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Compute(tt.oldText, tt.newText)
			if got := d.Summary(); got != tt.expected {
				t.Errorf("Expected summary '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"empty", "", []string{}},
		{"single line no newline", "line1", []string{"line1"}},
		{"single line with newline", "line1\n", []string{"line1"}},
		{"multiple lines", "line1\nline2\nline3", []string{"line1", "line2", "line3"}},
		{"trailing newline", "line1\nline2\nline3\n", []string{"line1", "line2", "line3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitLines(tt.text)
			if len(result) != len(tt.expected) {
				t.Errorf("Expected %d lines, got %d", len(tt.expected), len(result))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("Line %d: expected '%s', got '%s'", i, tt.expected[i], result[i])
				}
			}
		})
	}
}

func TestComputeLCS(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected []string
	}{
		{
			name:     "identical",
			a:        []string{"a", "b", "c"},
			b:        []string{"a", "b", "c"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "completely different",
			a:        []string{"a", "b", "c"},
			b:        []string{"x", "y", "z"},
			expected: []string{},
		},
		{
			name:     "partial match",
			a:        []string{"a", "b", "c", "d"},
			b:        []string{"a", "x", "c", "d"},
			expected: []string{"a", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := computeLCS(tt.a, tt.b)
			if len(result) != len(tt.expected) {
				t.Errorf("Expected LCS length %d, got %d", len(tt.expected), len(result))
				return
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("LCS[%d]: expected '%s', got '%s'", i, tt.expected[i], result[i])
				}
			}
		})
	}
}

func TestGroupIntoHunks(t *testing.T) {
	lines := []Line{
		{Type: LineContext, Content: "line1", OldLine: 1, NewLine: 1},
		{Type: LineContext, Content: "line2", OldLine: 2, NewLine: 2},
		{Type: LineRemoved, Content: "old line", OldLine: 3},
		{Type: LineAdded, Content: "new line", NewLine: 3},
		{Type: LineContext, Content: "line4", OldLine: 4, NewLine: 4},
	}

	hunks := groupIntoHunks(lines)
	if len(hunks) == 0 {
		t.Fatal("Expected at least one hunk")
	}

	foundChange := false
	for _, hunk := range hunks {
		for _, line := range hunk.Lines {
			if line.Type == LineRemoved || line.Type == LineAdded {
				foundChange = true
			}
		}
	}
	if !foundChange {
		t.Error("Hunks should contain changed lines")
	}
}

func TestGroupIntoHunks_SeparatedChanges(t *testing.T) {
	// Two changes far enough apart to produce separate hunks.
	var oldSB, newSB strings.Builder
	for i := 1; i <= 20; i++ {
		oldSB.WriteString("line\n")
		if i == 2 || i == 18 {
			newSB.WriteString("changed\n")
		} else {
			newSB.WriteString("line\n")
		}
	}

	d := Compute(oldSB.String(), newSB.String())
	if len(d.Hunks) != 2 {
		t.Errorf("Expected 2 hunks, got %d", len(d.Hunks))
	}
}
