// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// MESSAGES
// =============================================================================

// assistUpdateMsg signals that the orchestrator changed state or
// content on another goroutine.
type assistUpdateMsg struct{}

// autosaveTickMsg triggers a periodic draft save.
type autosaveTickMsg time.Time

// draftSavedMsg reports the outcome of a save.
type draftSavedMsg struct {
	err error
}

// =============================================================================
// COMMANDS
// =============================================================================

// waitForAssistUpdate blocks on the orchestrator's update channel and
// re-arms itself after every message.
func waitForAssistUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return assistUpdateMsg{}
	}
}

// autosaveTick schedules the next autosave.
func autosaveTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return autosaveTickMsg(t)
	})
}
