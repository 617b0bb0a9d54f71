// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package diff

import (
	"fmt"
	"strings"
)

// =============================================================================
// LINE TYPES
// =============================================================================

// LineType classifies a diff line.
type LineType int

const (
	// LineContext is an unchanged line shown for orientation.
	LineContext LineType = iota
	// LineAdded is a line present only in the new text.
	LineAdded
	// LineRemoved is a line present only in the old text.
	LineRemoved
)

// String returns the line type name.
func (t LineType) String() string {
	switch t {
	case LineContext:
		return "context"
	case LineAdded:
		return "added"
	case LineRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Prefix returns the conventional one-character marker.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// =============================================================================
// LINES AND HUNKS
// =============================================================================

// Line is a single line of the diff.
type Line struct {
	Type    LineType
	Content string
	OldLine int // line number in the old text, 0 if added
	NewLine int // line number in the new text, 0 if removed
}

// Hunk is a contiguous section of changes plus surrounding context.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// Stats counts the changes in a diff.
type Stats struct {
	Additions int
	Deletions int
}

// Diff is a complete comparison of two texts.
type Diff struct {
	OldText string
	NewText string
	Hunks   []Hunk
	Stats   Stats
}

// Identical reports whether the two texts produced no changes.
func (d *Diff) Identical() bool {
	return d.Stats.Additions == 0 && d.Stats.Deletions == 0
}

// =============================================================================
// COMPUTATION
// =============================================================================

// Compute diffs old against new text line by line using an LCS-based
// comparison, grouping changes into hunks with three lines of context.
func Compute(oldText, newText string) *Diff {
	d := &Diff{
		OldText: oldText,
		NewText: newText,
	}

	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	lines := computeLineDiff(oldLines, newLines)
	d.Hunks = groupIntoHunks(lines)

	for _, line := range lines {
		switch line.Type {
		case LineAdded:
			d.Stats.Additions++
		case LineRemoved:
			d.Stats.Deletions++
		}
	}

	return d
}

// splitLines splits text into lines, dropping the phantom line a
// trailing newline would create.
func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// computeLineDiff walks both texts against their longest common
// subsequence, classifying each line.
func computeLineDiff(oldLines, newLines []string) []Line {
	var result []Line

	if len(oldLines) == 0 && len(newLines) == 0 {
		return result
	}
	if len(oldLines) == 0 {
		for i, line := range newLines {
			result = append(result, Line{Type: LineAdded, Content: line, NewLine: i + 1})
		}
		return result
	}
	if len(newLines) == 0 {
		for i, line := range oldLines {
			result = append(result, Line{Type: LineRemoved, Content: line, OldLine: i + 1})
		}
		return result
	}

	lcs := computeLCS(oldLines, newLines)

	oldIdx, newIdx, lcsIdx := 0, 0, 0
	for oldIdx < len(oldLines) || newIdx < len(newLines) {
		if lcsIdx < len(lcs) &&
			oldIdx < len(oldLines) && newIdx < len(newLines) &&
			oldLines[oldIdx] == newLines[newIdx] &&
			oldLines[oldIdx] == lcs[lcsIdx] {
			result = append(result, Line{
				Type:    LineContext,
				Content: oldLines[oldIdx],
				OldLine: oldIdx + 1,
				NewLine: newIdx + 1,
			})
			oldIdx++
			newIdx++
			lcsIdx++
		} else if oldIdx < len(oldLines) && (lcsIdx >= len(lcs) || oldLines[oldIdx] != lcs[lcsIdx]) {
			result = append(result, Line{
				Type:    LineRemoved,
				Content: oldLines[oldIdx],
				OldLine: oldIdx + 1,
			})
			oldIdx++
		} else if newIdx < len(newLines) {
			result = append(result, Line{
				Type:    LineAdded,
				Content: newLines[newIdx],
				NewLine: newIdx + 1,
			})
			newIdx++
		}
	}

	return result
}

// computeLCS computes the longest common subsequence of two line slices.
func computeLCS(a, b []string) []string {
	m, n := len(a), len(b)

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	var lcs []string
	i, j := m, n
	for i > 0 && j > 0 {
		if a[i-1] == b[j-1] {
			lcs = append([]string{a[i-1]}, lcs...)
			i--
			j--
		} else if dp[i-1][j] > dp[i][j-1] {
			i--
		} else {
			j--
		}
	}

	return lcs
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// groupIntoHunks groups classified lines into hunks, keeping up to
// three context lines on each side of a change.
func groupIntoHunks(lines []Line) []Hunk {
	if len(lines) == 0 {
		return nil
	}

	const contextLines = 3

	var hunks []Hunk
	var current *Hunk

	for i, line := range lines {
		isChange := line.Type != LineContext

		if current == nil && isChange {
			current = &Hunk{}

			contextStart := max(0, i-contextLines)
			for j := contextStart; j < i; j++ {
				current.Lines = append(current.Lines, lines[j])
				if lines[j].OldLine > 0 {
					current.OldCount++
				}
				if lines[j].NewLine > 0 {
					current.NewCount++
				}
			}

			if len(current.Lines) > 0 {
				first := current.Lines[0]
				if first.OldLine > 0 {
					current.OldStart = first.OldLine
				} else {
					current.OldStart = line.OldLine
				}
				if first.NewLine > 0 {
					current.NewStart = first.NewLine
				} else {
					current.NewStart = line.NewLine
				}
			} else {
				current.OldStart = line.OldLine
				current.NewStart = line.NewLine
			}
		}

		if current != nil {
			current.Lines = append(current.Lines, line)
			if line.OldLine > 0 {
				current.OldCount++
			}
			if line.NewLine > 0 {
				current.NewCount++
			}

			// Close the hunk once the trailing context runs out.
			contextAfter := 0
			for j := i + 1; j < len(lines) && j < i+1+contextLines; j++ {
				if lines[j].Type != LineContext {
					contextAfter = -1
					break
				}
				contextAfter++
			}

			if contextAfter >= 0 && (i == len(lines)-1 || contextAfter < contextLines) {
				for j := i + 1; j <= i+contextAfter && j < len(lines); j++ {
					current.Lines = append(current.Lines, lines[j])
					if lines[j].OldLine > 0 {
						current.OldCount++
					}
					if lines[j].NewLine > 0 {
						current.NewCount++
					}
				}
				hunks = append(hunks, *current)
				current = nil
			}
		}
	}

	if current != nil {
		hunks = append(hunks, *current)
	}

	return hunks
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatUnified renders the diff with unified-style hunk headers and
// +/- prefixes. Labels name the two sides, typically "original" and
// "suggested".
func FormatUnified(d *Diff, oldLabel, newLabel string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("--- %s\n", oldLabel))
	sb.WriteString(fmt.Sprintf("+++ %s\n", newLabel))

	for _, hunk := range d.Hunks {
		sb.WriteString(fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldCount,
			hunk.NewStart, hunk.NewCount))
		for _, line := range hunk.Lines {
			sb.WriteString(line.Type.Prefix())
			sb.WriteString(line.Content)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// Summary returns a short human-readable change count, e.g. "+3 -1".
func (d *Diff) Summary() string {
	if d.Identical() {
		return "No changes"
	}

	var parts []string
	if d.Stats.Additions > 0 {
		parts = append(parts, fmt.Sprintf("+%d", d.Stats.Additions))
	}
	if d.Stats.Deletions > 0 {
		parts = append(parts, fmt.Sprintf("-%d", d.Stats.Deletions))
	}
	return strings.Join(parts, " ")
}
