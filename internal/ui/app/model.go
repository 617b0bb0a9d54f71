// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/inkwell/internal/assist"
	"github.com/jeranaias/inkwell/internal/cloud"
	"github.com/jeranaias/inkwell/internal/config"
	"github.com/jeranaias/inkwell/internal/diffview"
	"github.com/jeranaias/inkwell/internal/editor"
	"github.com/jeranaias/inkwell/internal/markdown"
	"github.com/jeranaias/inkwell/internal/storage"
	"github.com/jeranaias/inkwell/internal/telemetry"
	"github.com/jeranaias/inkwell/internal/ui/components"
	"github.com/jeranaias/inkwell/internal/ui/styles"
)

// =============================================================================
// APP MODEL
// =============================================================================

// Model is the top-level Bubble Tea model.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme
	keys  KeyMap

	// Editing surface. The textarea is what the user types into; the
	// buffer is the document the assistant reads and mutates. They are
	// synced at the boundaries of every assist interaction.
	textarea textarea.Model
	buffer   *editor.Buffer

	// Selection mark. When set, the selection runs from the mark to the
	// cursor; when nil, assists operate on the caret position.
	mark *int

	// Assist pipeline
	highlighter *editor.Highlighter
	diffView    *diffview.TerminalView
	diffCtl     *diffview.Controller
	orch        *assist.Orchestrator
	updates     chan struct{}

	// Focus tracking for highlight-clear suppression
	focus editor.FocusRegion

	// Overlay components
	menu     *components.Menu
	prompt   *components.Prompt
	response *components.ResponsePanel
	status   *components.StatusBar

	// Whether the prompt bar is capturing keystrokes
	promptActive bool
	// Label of the submitted action, for the response panel title
	pendingTitle string

	// Persistence
	drafts  *storage.DraftStore
	history *storage.History
	usage   *telemetry.Store
	draftID string

	width    int
	height   int
	quitting bool
	saveNote string
}

// Options carries the app's collaborators built in main.
type Options struct {
	Config  *config.Config
	Client  *cloud.Client
	Drafts  *storage.DraftStore
	History *storage.History
	Usage   *telemetry.Store // optional
	Draft   *storage.StoredDraft
}

// New builds the app model and wires the assist pipeline.
func New(opts Options) *Model {
	theme := styles.NewTheme()

	ta := textarea.New()
	ta.Placeholder = "Start writing..."
	ta.CharLimit = 0
	ta.Focus()

	m := &Model{
		cfg:      opts.Config,
		theme:    theme,
		keys:     DefaultKeyMap(),
		textarea: ta,
		buffer:   editor.NewBuffer(""),
		updates:  make(chan struct{}, 1),
		menu:     components.NewMenu(theme),
		prompt:   components.NewPrompt(theme),
		response: components.NewResponsePanel(theme),
		status:   components.NewStatusBar(theme),
		drafts:   opts.Drafts,
		history:  opts.History,
		usage:    opts.Usage,
		focus:    editor.RegionEditor,
		width:    80,
		height:   24,
	}

	if opts.Draft != nil {
		m.draftID = opts.Draft.ID
		m.textarea.SetValue(opts.Draft.Content)
		m.buffer = editor.NewBuffer(opts.Draft.Content)
	}

	m.highlighter = editor.NewHighlighter(m.buffer, func() editor.FocusRegion {
		return m.focus
	})
	m.diffView = diffview.NewTerminalView()
	m.diffCtl = diffview.NewController(m.buffer, m.highlighter, m.diffView)

	var sink assist.StatsSink
	if opts.Usage != nil {
		sink = opts.Usage
	}

	m.orch = assist.NewOrchestrator(context.Background(), assist.Config{
		Document:    m.buffer,
		Highlighter: m.highlighter,
		Diff:        m.diffCtl,
		Streamer:    opts.Client,
		Converter:   markdown.NewConverter(),
		Stats:       sink,
		OnUpdate:    m.notifyUpdate,
	})

	return m
}

// notifyUpdate wakes the event loop without blocking the streaming
// goroutine; a pending wake-up is enough.
func (m *Model) notifyUpdate() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// Init starts the background listeners.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textarea.Blink,
		waitForAssistUpdate(m.updates),
	}
	if m.cfg.Editor.AutosaveSecs > 0 {
		cmds = append(cmds, autosaveTick(time.Duration(m.cfg.Editor.AutosaveSecs)*time.Second))
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// EDITOR / BUFFER SYNC
// =============================================================================

// cursorIndex returns the cursor position as an absolute rune offset.
func (m *Model) cursorIndex() int {
	lines := strings.Split(m.textarea.Value(), "\n")
	row := m.textarea.Line()
	if row >= len(lines) {
		row = len(lines) - 1
	}

	index := 0
	for i := 0; i < row; i++ {
		index += len([]rune(lines[i])) + 1
	}

	info := m.textarea.LineInfo()
	col := info.StartColumn + info.ColumnOffset
	if lineLen := len([]rune(lines[row])); col > lineLen {
		col = lineLen
	}
	return index + col
}

// selectionRange returns the active selection, caret-only when no mark
// is set.
func (m *Model) selectionRange() editor.Range {
	cursor := m.cursorIndex()
	if m.mark == nil {
		return editor.NewRange(cursor, 0)
	}
	start, end := *m.mark, cursor
	if start > end {
		start, end = end, start
	}
	return editor.NewRange(start, end-start)
}

// syncBufferFromEditor mirrors the textarea into the assist buffer and
// sets the selection the orchestrator will capture.
func (m *Model) syncBufferFromEditor() {
	text := m.textarea.Value()
	if m.buffer.Text() != text {
		m.buffer.DeleteText(editor.NewRange(0, m.buffer.Length()))
		m.buffer.InsertText(0, text)
	}
	sel := m.selectionRange()
	m.buffer.SetSelection(&sel)
}

// syncEditorFromBuffer writes assistant edits back to the textarea.
func (m *Model) syncEditorFromBuffer() {
	m.textarea.SetValue(m.buffer.Text())
	m.mark = nil
}

// wordCount counts the words in the editor.
func (m *Model) wordCount() int {
	return len(strings.Fields(m.textarea.Value()))
}

// =============================================================================
// DRAFT PERSISTENCE
// =============================================================================

// saveDraft persists the current editor content.
func (m *Model) saveDraft() tea.Cmd {
	if m.drafts == nil {
		return nil
	}
	draft := &storage.StoredDraft{
		ID:      m.draftID,
		Content: m.textarea.Value(),
	}
	return func() tea.Msg {
		id, err := m.drafts.Save(draft)
		if err == nil {
			m.draftID = id
		}
		return draftSavedMsg{err: err}
	}
}
