// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the inkwell TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Purple - Primary accent, assistant responses, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Cyan - Brand color, commands, shortcuts
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, diff additions
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// EmeraldDeep - Darker emerald for added-line backgrounds
var EmeraldDeep = lipgloss.AdaptiveColor{Light: "#D1FAE5", Dark: "#064E3B"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, diff removals
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// RoseDeep - Darker rose for removed-line backgrounds
var RoseDeep = lipgloss.AdaptiveColor{Light: "#FEE2E2", Dark: "#881337"}

// Amber - Warnings, rate-limit notices
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// AmberDeep - Darker amber for notice backgrounds
var AmberDeep = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for bars and code
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// SurfaceBright - Slightly lighter/darker surface for highlights
var SurfaceBright = lipgloss.AdaptiveColor{Light: "#FAFAFA", Dark: "#313244"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// OverlayDim - Dimmer overlay for less prominent elements
var OverlayDim = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// SELECTION AND DIFF COLORS
// =============================================================================

// SelectionBg - The soft blue wash behind AI-selected text. Kept pale
// so the text underneath stays readable.
var SelectionBg = lipgloss.AdaptiveColor{Light: "#B4D5FE", Dark: "#1E3A5F"}

// Diff view line colors
var DiffAddedFg = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#A7F3D0"}
var DiffAddedBg = EmeraldDeep
var DiffRemovedFg = lipgloss.AdaptiveColor{Light: "#991B1B", Dark: "#FECACA"}
var DiffRemovedBg = RoseDeep

// Focus ring color
var FocusRing = Cyan

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicatorSet contains text/shape indicators for status states.
// These symbols provide visual cues beyond color for colorblind accessibility.
type StatusIndicatorSet struct {
	Success string
	Error   string
	Warning string
	Info    string
	Pending string
}

// StatusIndicators provides accessible shape/text indicators alongside colors.
var StatusIndicators = StatusIndicatorSet{
	Success: "[OK]",
	Error:   "[X]",
	Warning: "[!]",
	Info:    "[i]",
	Pending: "[ ]",
}

// =============================================================================
// STATUS MESSAGE HELPERS
// =============================================================================

// RenderSuccess renders a success message with its shape indicator.
func RenderSuccess(message string) string {
	style := lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	return style.Render(StatusIndicators.Success + " " + message)
}

// RenderError renders an error message with its shape indicator.
func RenderError(message string) string {
	style := lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
	return style.Render(StatusIndicators.Error + " " + message)
}

// RenderWarning renders a warning message with its shape indicator.
func RenderWarning(message string) string {
	style := lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	return style.Render(StatusIndicators.Warning + " " + message)
}

// RenderInfo renders an info message with its shape indicator.
func RenderInfo(message string) string {
	style := lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	return style.Render(StatusIndicators.Info + " " + message)
}
