// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/inkwell/internal/ui/styles"
)

// =============================================================================
// SPINNER COMPONENT
// =============================================================================

// Spinner is the generation spinner shown while a response streams in.
type Spinner struct {
	spinner   spinner.Model
	theme     *styles.Theme
	message   string
	startTime time.Time
	active    bool
}

// NewSpinner creates a spinner with ASCII-compatible frames.
func NewSpinner(theme *styles.Theme) *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = theme.Spinner

	return &Spinner{
		spinner: s,
		theme:   theme,
		message: "Thinking",
	}
}

// Start activates the spinner and returns its tick command.
func (s *Spinner) Start(message string) tea.Cmd {
	if message != "" {
		s.message = message
	}
	s.active = true
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.active
}

// Update advances the animation. Returns a command only while active so
// a stopped spinner does not keep the event loop ticking.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// Render draws the spinner line with elapsed time.
func (s *Spinner) Render() string {
	if !s.active {
		return ""
	}
	elapsed := time.Since(s.startTime).Round(time.Second)
	text := s.theme.ThinkingText.Render(fmt.Sprintf("%s... (%s)", s.message, elapsed))
	return s.spinner.View() + " " + text
}
