// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/inkwell/internal/assist"
	"github.com/jeranaias/inkwell/internal/editor"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.textarea.SetWidth(msg.Width - 4)
		m.textarea.SetHeight(msg.Height - 3)
		m.status.Width = msg.Width
		m.response.SetWidth(msg.Width - 4)
		m.diffView.SetWidth(msg.Width - 4)
		m.prompt.SetWidth(msg.Width)
		return m, nil

	case assistUpdateMsg:
		cmd := m.refreshOverlays()
		return m, tea.Batch(cmd, waitForAssistUpdate(m.updates))

	case autosaveTickMsg:
		interval := time.Duration(m.cfg.Editor.AutosaveSecs) * time.Second
		return m, tea.Batch(m.saveDraft(), autosaveTick(interval))

	case draftSavedMsg:
		if msg.err != nil {
			m.saveNote = "save failed: " + msg.err.Error()
		} else {
			m.saveNote = "draft saved"
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, m.handleClick()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else (blink ticks, spinner frames) flows to whichever
	// component is live.
	return m, m.updateComponents(msg)
}

// updateComponents forwards non-key messages to active components.
func (m *Model) updateComponents(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd

	if cmd := m.response.Spinner().Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if m.promptActive {
		if cmd := m.prompt.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if m.orch.State() == assist.StateIdle {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// KEY DISPATCH
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		m.orch.Dispose()
		return m, tea.Sequence(m.saveDraft(), tea.Quit)
	}

	switch m.orch.State() {
	case assist.StateIdle:
		return m.handleEditorKey(msg)
	case assist.StateMenuOpen:
		return m.handleMenuKey(msg)
	case assist.StateGenerating:
		return m.handleGeneratingKey(msg)
	case assist.StateResponseReady:
		return m.handleResponseKey(msg)
	case assist.StateDiffOpen:
		return m.handleDiffKey(msg)
	}
	return m, nil
}

// handleEditorKey runs while the user is writing.
func (m *Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m, m.saveDraft()

	case key.Matches(msg, m.keys.Mark):
		idx := m.cursorIndex()
		m.mark = &idx
		m.saveNote = "selection mark set"
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.mark = nil
		return m, nil

	case key.Matches(msg, m.keys.Assist):
		m.syncBufferFromEditor()
		m.menu.Reset()
		m.focus = editor.RegionMenu
		m.orch.OpenMenu()
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handleMenuKey covers both the action list and the prompt bar.
func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.promptActive {
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.promptActive = false
			m.prompt.Blur()
			m.focus = editor.RegionMenu
			return m, nil

		case key.Matches(msg, m.keys.Submit):
			prompt := m.prompt.Value()
			m.promptActive = false
			m.prompt.Blur()
			m.recordHistory(prompt, "")
			m.pendingTitle = "AI Response"
			m.focus = editor.RegionResponsePanel
			m.orch.Submit(prompt)
			return m, m.response.Spinner().Start("Writing")
		}
		return m, m.prompt.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeAssist()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.menu.IsCustomSelected() {
			m.promptActive = true
			m.focus = editor.RegionPromptInput
			return m, m.prompt.Focus()
		}
		action := m.menu.Selected()
		m.recordHistory("", action.Label())
		m.pendingTitle = action.Label()
		m.focus = editor.RegionResponsePanel
		m.orch.SubmitAction(action)
		return m, m.response.Spinner().Start("Writing")
	}

	m.menu.Update(msg)
	return m, nil
}

// handleGeneratingKey allows only aborting while a response streams.
func (m *Model) handleGeneratingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.orch.Abort()
	}
	return m, nil
}

// handleResponseKey covers the decision buttons on a finished response.
func (m *Model) handleResponseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Replace):
		m.orch.Replace()
		m.syncEditorFromBuffer()
		m.focus = editor.RegionEditor
		return m, nil

	case key.Matches(msg, m.keys.Insert):
		m.orch.InsertAfter()
		m.syncEditorFromBuffer()
		m.focus = editor.RegionEditor
		return m, nil

	case key.Matches(msg, m.keys.Compare):
		if err := m.orch.Compare(); err == nil {
			m.focus = editor.RegionFloatingPanel
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.orch.Copy() != "" {
			m.saveNote = "response copied"
		}
		return m, nil

	case key.Matches(msg, m.keys.Regenerate):
		m.orch.Regenerate()
		return m, m.response.Spinner().Start("Writing")

	case key.Matches(msg, m.keys.Cancel):
		m.closeAssist()
		return m, nil
	}
	return m, nil
}

// handleDiffKey covers the compare view decisions.
func (m *Model) handleDiffKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if err := m.orch.DiffAcceptReplace(); err == nil {
			m.syncEditorFromBuffer()
			m.focus = editor.RegionEditor
		}
		return m, nil

	case key.Matches(msg, m.keys.Append):
		if err := m.orch.DiffAcceptAppend(); err == nil {
			m.syncEditorFromBuffer()
			m.focus = editor.RegionEditor
		}
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.orch.DiffCancel()
		m.focus = editor.RegionResponsePanel
		return m, nil
	}
	return m, nil
}

// =============================================================================
// TEARDOWN HELPERS
// =============================================================================

// closeAssist dismisses the interaction the same way an outside click
// does.
func (m *Model) closeAssist() {
	m.focus = editor.RegionEditor
	m.promptActive = false
	m.prompt.Blur()
	m.response.Reset()
	m.orch.HandleOutsideClick(editor.RegionEditor)
}

// handleClick treats any mouse press on the editor as an outside click
// for the overlays.
func (m *Model) handleClick() tea.Cmd {
	if m.orch.State() == assist.StateIdle {
		return nil
	}
	m.closeAssist()
	return nil
}

// recordHistory appends to the prompt history, ignoring failures.
func (m *Model) recordHistory(prompt, action string) {
	if m.history == nil {
		return
	}
	_ = m.history.Append(prompt, action)
}

// =============================================================================
// ORCHESTRATOR REFRESH
// =============================================================================

// refreshOverlays pulls the latest orchestrator state into the visual
// components after a background update.
func (m *Model) refreshOverlays() tea.Cmd {
	state := m.orch.State()

	m.response.SetTitle(m.pendingTitle)
	m.response.SetContent(m.orch.ResponseText())
	m.response.SetGenerating(state == assist.StateGenerating)
	m.response.SetCanCompare(m.orch.CanCompare())

	m.status.State = state
	m.status.WordCount = m.wordCount()
	switch {
	case m.orch.Notice() != "":
		m.status.Notice = m.orch.Notice()
	case m.orch.ErrorText() != "":
		m.status.Notice = m.orch.ErrorText()
	default:
		m.status.Notice = m.saveNote
		m.saveNote = ""
	}

	// Keep the focus region honest when the orchestrator moves state
	// underneath us (abort fallback, failure back to menu).
	switch state {
	case assist.StateIdle:
		m.focus = editor.RegionEditor
	case assist.StateMenuOpen:
		if !m.promptActive {
			m.focus = editor.RegionMenu
		}
	case assist.StateDiffOpen:
		m.focus = editor.RegionFloatingPanel
	}

	return nil
}
