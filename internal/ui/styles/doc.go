// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the inkwell TUI.

This package defines the color palette and the themed lipgloss styles
used throughout the application. All colors use Lip Gloss AdaptiveColor
for automatic light/dark terminal detection.

# Color System (colors.go)

  - Purple - Primary accent for the assistant and selections
  - Cyan - Brand color for commands and shortcuts
  - Emerald - Additions in the diff view, success states
  - Amber - Warnings and rate-limit notices
  - Rose - Errors and removals in the diff view

Layered surface system for depth:

	Surface    - Main background
	SurfaceDim - Subtle backgrounds (status bar, code blocks)
	Overlay    - Borders and separators

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct bundles every styled surface the app renders: the
editor pane, the selection highlight, the assist menu, the prompt bar,
the response panel, the diff view, and the status bar. It also provides
runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}

# Usage Example

	import "github.com/jeranaias/inkwell/internal/ui/styles"

	// Use adaptive colors
	panelStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	// Use theme for pre-built surfaces
	theme := styles.NewTheme()
	bar := theme.StatusBar.Render(status)
*/
package styles
