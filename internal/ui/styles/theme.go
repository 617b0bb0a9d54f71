// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the inkwell TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// EDITOR STYLES
	// ==========================================================================

	Editor         lipgloss.Style
	EditorFocused  lipgloss.Style
	EditorText     lipgloss.Style
	Selection      lipgloss.Style
	AssistSelected lipgloss.Style
	CaretLine      lipgloss.Style

	// ==========================================================================
	// ASSIST MENU STYLES
	// ==========================================================================

	MenuBox          lipgloss.Style
	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style
	MenuHint         lipgloss.Style

	// ==========================================================================
	// PROMPT BAR STYLES
	// ==========================================================================

	PromptContainer   lipgloss.Style
	PromptLabel       lipgloss.Style
	PromptText        lipgloss.Style
	PromptPlaceholder lipgloss.Style

	// ==========================================================================
	// RESPONSE PANEL STYLES
	// ==========================================================================

	ResponsePanel  lipgloss.Style
	ResponseTitle  lipgloss.Style
	ResponseAction lipgloss.Style
	Spinner        lipgloss.Style
	ThinkingText   lipgloss.Style

	// ==========================================================================
	// DIFF VIEW STYLES
	// ==========================================================================

	DiffPanel      lipgloss.Style
	DiffHeader     lipgloss.Style
	DiffAdded      lipgloss.Style
	DiffRemoved    lipgloss.Style
	DiffContext    lipgloss.Style
	DiffHunkHeader lipgloss.Style
	DiffStats      lipgloss.Style

	// ==========================================================================
	// NOTICE AND ERROR STYLES
	// ==========================================================================

	NoticeBox    lipgloss.Style
	NoticeText   lipgloss.Style
	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusState  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	WordCount    lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Editor
	t.Editor = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.EditorFocused = t.Editor.
		BorderForeground(FocusRing)

	t.EditorText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Selection = lipgloss.NewStyle().
		Background(SelectionBg)

	t.AssistSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary)

	t.CaretLine = lipgloss.NewStyle().
		Background(SurfaceBright)

	// Assist menu
	t.MenuBox = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.MenuItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.MenuItemSelected = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.MenuHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Prompt bar
	t.PromptContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PromptLabel = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.PromptText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.PromptPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Response panel
	t.ResponsePanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2)

	t.ResponseTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.ResponseAction = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Diff view
	t.DiffPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.DiffHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	t.DiffAdded = lipgloss.NewStyle().
		Foreground(DiffAddedFg).
		Background(DiffAddedBg)

	t.DiffRemoved = lipgloss.NewStyle().
		Foreground(DiffRemovedFg).
		Background(DiffRemovedBg)

	t.DiffContext = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.DiffHunkHeader = lipgloss.NewStyle().
		Foreground(Cyan)

	t.DiffStats = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Notices and errors
	t.NoticeBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Amber).
		Background(AmberDeep).
		Padding(0, 1)

	t.NoticeText = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(0, 1)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusState = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.WordCount = lipgloss.NewStyle().
		Foreground(TextMuted).
		Align(lipgloss.Right)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
