// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jeranaias/inkwell/internal/cloud"
	"github.com/jeranaias/inkwell/internal/diffview"
	"github.com/jeranaias/inkwell/internal/editor"
	"github.com/jeranaias/inkwell/internal/session"
)

// =============================================================================
// STATE
// =============================================================================

// State is the orchestrator's position in the interaction flow.
type State int

const (
	// StateIdle means no AI surface is showing.
	StateIdle State = iota

	// StateMenuOpen means the AI menu or prompt input is visible.
	StateMenuOpen

	// StateGenerating means a session is streaming.
	StateGenerating

	// StateResponseReady means a complete response is showing.
	StateResponseReady

	// StateDiffOpen means the diff comparison is showing.
	StateDiffOpen
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMenuOpen:
		return "menu-open"
	case StateGenerating:
		return "generating"
	case StateResponseReady:
		return "response-ready"
	case StateDiffOpen:
		return "diff-open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// GenerationSession is the slice of session behavior the orchestrator
// drives. Satisfied by *session.Session.
type GenerationSession interface {
	ID() string
	Start(ctx context.Context, req cloud.ChatRequest) error
	Abort()
	Status() session.Status
	Content() string
	Stats() session.Stats
}

// SessionFactory builds a fresh session for each send or regenerate.
type SessionFactory func(notify session.NotifyFunc) GenerationSession

// MarkdownConverter turns model output into rich document content.
type MarkdownConverter interface {
	ToRichText(markdown string) (string, error)
}

// StatsSink receives usage numbers when a session reaches a terminal
// state. May be nil.
type StatsSink interface {
	Record(stats session.Stats)
}

// systemPrompt frames every generation request.
const systemPrompt = "You are a writing assistant embedded in a text editor. " +
	"Follow the user's instruction against the provided text. " +
	"Reply with the result only, no preamble."

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator binds one document, one highlighter, and one diff
// controller into the interaction flow. At most one session streams at
// a time; starting a new one goes through startSessionLocked, the only
// place allowed to abort the previous session.
type Orchestrator struct {
	mu sync.Mutex

	doc         editor.Document
	highlighter *editor.Highlighter
	diff        *diffview.Controller
	factory     SessionFactory
	converter   MarkdownConverter
	stats       StatsSink
	onUpdate    func()

	ctx   context.Context
	state State

	active   GenerationSession
	activeID string

	currentRange *editor.Range
	selectedText string
	lastPrompt   string
	lastAction   Action

	response    string
	errorText   string
	notice      string
	translation bool

	clicksEnabled bool
}

// Config carries the orchestrator's collaborators.
type Config struct {
	Document    editor.Document
	Highlighter *editor.Highlighter
	Diff        *diffview.Controller
	Streamer    session.Streamer
	Converter   MarkdownConverter // optional
	Stats       StatsSink         // optional

	// OnUpdate is called after every state or content change, from
	// whichever goroutine made the change. Optional.
	OnUpdate func()
}

// NewOrchestrator creates an idle orchestrator.
func NewOrchestrator(ctx context.Context, cfg Config) *Orchestrator {
	o := &Orchestrator{
		doc:         cfg.Document,
		highlighter: cfg.Highlighter,
		diff:        cfg.Diff,
		converter:   cfg.Converter,
		stats:       cfg.Stats,
		onUpdate:    cfg.OnUpdate,
		ctx:         ctx,
	}
	if o.onUpdate == nil {
		o.onUpdate = func() {}
	}
	streamer := cfg.Streamer
	o.factory = func(notify session.NotifyFunc) GenerationSession {
		return session.New(streamer, notify)
	}
	return o
}

// State returns the current interaction state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// ResponseText returns the accumulated response.
func (o *Orchestrator) ResponseText() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.response
}

// ErrorText returns the failure message for the response panel, empty
// when the last generation did not fail.
func (o *Orchestrator) ErrorText() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errorText
}

// Notice returns the user-facing notice (currently quota limits), empty
// otherwise.
func (o *Orchestrator) Notice() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.notice
}

// CurrentRange returns the selection captured at submit time, nil when
// no generation context exists.
func (o *Orchestrator) CurrentRange() *editor.Range {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.currentRange == nil {
		return nil
	}
	r := *o.currentRange
	return &r
}

// CanCompare reports whether the compare affordance should show:
// a complete response over a real selection, and not a translation.
func (o *Orchestrator) CanCompare() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.canCompareLocked()
}

func (o *Orchestrator) canCompareLocked() bool {
	return o.state == StateResponseReady &&
		o.currentRange != nil && !o.currentRange.IsEmpty() &&
		o.selectedText != "" && o.response != "" &&
		!o.translation
}

// =============================================================================
// MENU
// =============================================================================

// OpenMenu shows the AI menu. A non-empty selection is highlighted; a
// caret-only position means "compose from scratch" and highlights
// nothing.
func (o *Orchestrator) OpenMenu() {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return
	}
	o.state = StateMenuOpen
	o.clicksEnabled = true
	sel := o.doc.GetSelection()
	if sel != nil && !sel.IsEmpty() {
		o.highlighter.Apply(*sel)
	}
	o.mu.Unlock()
	o.onUpdate()
}

// =============================================================================
// GENERATION
// =============================================================================

// Submit sends the user's prompt. The selection is captured now, at
// submit time, not at menu-open time: it may have changed while the
// menu was visible. Valid from the menu and, as a resend, from a
// finished response.
func (o *Orchestrator) Submit(prompt string) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return
	}

	o.mu.Lock()
	if o.state != StateMenuOpen && o.state != StateResponseReady && o.state != StateGenerating {
		o.mu.Unlock()
		return
	}
	o.captureSelectionLocked()
	o.lastPrompt = prompt
	o.lastAction = ActionNone
	o.translation = isTranslationPrompt(prompt)
	o.startSessionLocked()
	o.mu.Unlock()
	o.onUpdate()
}

// SubmitAction runs a quick action with its hidden prompt.
func (o *Orchestrator) SubmitAction(action Action) {
	prompt := action.Prompt()
	if prompt == "" {
		return
	}

	o.mu.Lock()
	if o.state != StateMenuOpen && o.state != StateResponseReady && o.state != StateGenerating {
		o.mu.Unlock()
		return
	}
	o.captureSelectionLocked()
	o.lastPrompt = prompt
	o.lastAction = action
	o.translation = action == ActionTranslate
	o.startSessionLocked()
	o.mu.Unlock()
	o.onUpdate()
}

// Regenerate re-runs the last prompt against the originally captured
// selection, discarding any partial response.
func (o *Orchestrator) Regenerate() {
	o.mu.Lock()
	if o.lastPrompt == "" || (o.state != StateGenerating && o.state != StateResponseReady) {
		o.mu.Unlock()
		return
	}
	o.startSessionLocked()
	o.mu.Unlock()
	o.onUpdate()
}

// Abort stops the in-flight generation, keeping whatever content
// already streamed in.
func (o *Orchestrator) Abort() {
	o.mu.Lock()
	if o.state != StateGenerating {
		o.mu.Unlock()
		return
	}
	o.abortActiveLocked()
	if o.response != "" {
		o.state = StateResponseReady
	} else {
		o.state = StateMenuOpen
	}
	o.mu.Unlock()
	o.onUpdate()
}

// startSessionLocked is the single place a session is created. Any
// previous session is aborted first, so at most one streams at a time.
// The caller must hold o.mu.
func (o *Orchestrator) startSessionLocked() {
	o.abortActiveLocked()

	o.response = ""
	o.errorText = ""
	o.notice = ""
	o.state = StateGenerating

	s := o.factory(o.handleSnapshot)
	o.active = s
	o.activeID = s.ID()

	req := cloud.ChatRequest{
		Messages:    o.buildMessagesLocked(),
		Temperature: cloud.DefaultTemperature,
	}
	if err := s.Start(o.ctx, req); err != nil {
		log.Printf("session start failed: %v", err)
		o.errorText = err.Error()
		o.state = StateMenuOpen
		o.active = nil
		o.activeID = ""
	}
}

// abortActiveLocked aborts and drops the active session, recording its
// stats. The caller must hold o.mu.
func (o *Orchestrator) abortActiveLocked() {
	if o.active == nil {
		return
	}
	o.active.Abort()
	if o.stats != nil {
		o.stats.Record(o.active.Stats())
	}
	o.active = nil
	o.activeID = ""
}

func (o *Orchestrator) buildMessagesLocked() []cloud.ChatMessage {
	content := o.lastPrompt
	if o.selectedText != "" {
		content = o.lastPrompt + "\n\n" + o.selectedText
	}
	return []cloud.ChatMessage{
		cloud.NewSystemMessage(systemPrompt),
		cloud.NewUserMessage(content),
	}
}

// captureSelectionLocked snapshots the live selection. The caller must
// hold o.mu.
func (o *Orchestrator) captureSelectionLocked() {
	sel := o.doc.GetSelection()
	if sel == nil {
		o.currentRange = nil
		o.selectedText = ""
		return
	}
	r := *sel
	o.currentRange = &r
	o.selectedText = o.doc.GetText(r)
	if !r.IsEmpty() {
		o.highlighter.Apply(r)
	}
}

// handleSnapshot receives session progress from the streaming
// goroutine. Snapshots from anything but the active session are
// dropped: a regenerate may leave a dying session whose last chunk is
// still in flight.
func (o *Orchestrator) handleSnapshot(snap session.Snapshot) {
	o.mu.Lock()
	if snap.ID != o.activeID {
		o.mu.Unlock()
		return
	}

	o.response = snap.Content

	switch snap.Status {
	case session.StatusCompleted:
		o.state = StateResponseReady
		o.finishActiveLocked()
	case session.StatusFailed:
		o.notice = snap.Notice
		if o.notice == "" && snap.Err != nil {
			o.errorText = snap.Err.Error()
		}
		o.state = StateMenuOpen
		o.finishActiveLocked()
	}
	o.mu.Unlock()
	o.onUpdate()
}

// finishActiveLocked records stats for a terminally finished session
// and drops the handle. The caller must hold o.mu.
func (o *Orchestrator) finishActiveLocked() {
	if o.active != nil && o.stats != nil {
		o.stats.Record(o.active.Stats())
	}
	o.active = nil
	o.activeID = ""
}

// =============================================================================
// RESPONSE ACTIONS
// =============================================================================

// InsertAfter writes the response on a new line after the captured
// range and resets to idle. No-op without a captured range.
func (o *Orchestrator) InsertAfter() {
	o.mu.Lock()
	if o.state != StateResponseReady || o.currentRange == nil || o.response == "" {
		o.mu.Unlock()
		return
	}
	content := o.renderResponseLocked()
	o.doc.InsertRichContent(o.currentRange.End(), "\n"+content)
	o.teardownLocked(true)
	o.mu.Unlock()
	o.onUpdate()
}

// Replace substitutes the response for the captured range and resets to
// idle. With a caret-only capture it degenerates to an insert at the
// caret. No-op without a captured range.
func (o *Orchestrator) Replace() {
	o.mu.Lock()
	if o.state != StateResponseReady || o.currentRange == nil || o.response == "" {
		o.mu.Unlock()
		return
	}
	content := o.renderResponseLocked()
	if !o.currentRange.IsEmpty() {
		o.doc.DeleteText(*o.currentRange)
	}
	o.doc.InsertRichContent(o.currentRange.Index, content)
	o.teardownLocked(true)
	o.mu.Unlock()
	o.onUpdate()
}

// Copy returns the response text for the clipboard without changing
// state.
func (o *Orchestrator) Copy() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateResponseReady {
		return ""
	}
	return o.response
}

// Compare opens the diff comparison between the captured selection and
// the response. Suppressed for translation prompts and caret-only
// captures; see CanCompare.
func (o *Orchestrator) Compare() error {
	o.mu.Lock()
	if !o.canCompareLocked() {
		o.mu.Unlock()
		return diffview.ErrNotOpen
	}
	original := o.doc.GetText(*o.currentRange)
	err := o.diff.Open(original, o.response, *o.currentRange)
	if err == nil {
		o.state = StateDiffOpen
	}
	o.mu.Unlock()
	o.onUpdate()
	return err
}

// =============================================================================
// DIFF DECISIONS
// =============================================================================

// DiffAcceptReplace commits the diff as a replacement and resets to
// idle. On a stale comparison (document edited while open) the error
// propagates and the diff stays open for Cancel.
func (o *Orchestrator) DiffAcceptReplace() error {
	return o.diffDecision((*diffview.Controller).AcceptReplace)
}

// DiffAcceptAppend commits the diff as an append and resets to idle.
func (o *Orchestrator) DiffAcceptAppend() error {
	return o.diffDecision((*diffview.Controller).AcceptAppend)
}

func (o *Orchestrator) diffDecision(commit func(*diffview.Controller) error) error {
	o.mu.Lock()
	if o.state != StateDiffOpen {
		o.mu.Unlock()
		return diffview.ErrNotOpen
	}
	if err := commit(o.diff); err != nil {
		o.mu.Unlock()
		return err
	}
	o.teardownLocked(true)
	o.mu.Unlock()
	o.onUpdate()
	return nil
}

// DiffCancel discards the comparison and resets to idle.
func (o *Orchestrator) DiffCancel() {
	o.mu.Lock()
	if o.state != StateDiffOpen {
		o.mu.Unlock()
		return
	}
	o.diff.Cancel()
	o.teardownLocked(true)
	o.mu.Unlock()
	o.onUpdate()
}

// =============================================================================
// OUTSIDE CLICKS
// =============================================================================

// HandleOutsideClick is the persistent teardown hook: the UI calls it
// for every click with the region the click landed in. One handler,
// registered once, gated by an enabled flag; it never re-registers
// itself. Clicks inside the exclusion set are ignored so formatting
// controls can be used mid-review; anything else tears the whole
// interaction down.
func (o *Orchestrator) HandleOutsideClick(region editor.FocusRegion) {
	o.mu.Lock()
	if !o.clicksEnabled || o.state == StateIdle {
		o.mu.Unlock()
		return
	}
	if region.InExclusionSet() {
		o.mu.Unlock()
		return
	}
	o.abortActiveLocked()
	if o.state == StateDiffOpen {
		o.diff.Cancel()
	}
	o.teardownLocked(true)
	o.mu.Unlock()
	o.onUpdate()
}

// SetClicksEnabled gates the outside-click handler without
// unregistering it.
func (o *Orchestrator) SetClicksEnabled(enabled bool) {
	o.mu.Lock()
	o.clicksEnabled = enabled
	o.mu.Unlock()
}

// =============================================================================
// TEARDOWN
// =============================================================================

// Dispose tears everything down: aborts any stream, closes the diff,
// clears the highlight. Idempotent.
func (o *Orchestrator) Dispose() {
	o.mu.Lock()
	o.abortActiveLocked()
	if o.diff != nil {
		o.diff.Dispose()
	}
	o.teardownLocked(true)
	o.clicksEnabled = false
	o.mu.Unlock()
}

// teardownLocked resets to idle. Ranges are nulled: they are not stable
// across the mutation that just happened (or the surfaces that just
// hid). The caller must hold o.mu.
func (o *Orchestrator) teardownLocked(clearHighlight bool) {
	if clearHighlight && o.highlighter != nil {
		if active := o.highlighter.Active(); active != nil {
			o.highlighter.ForceClear(*active)
		}
	}
	o.currentRange = nil
	o.selectedText = ""
	o.response = ""
	o.errorText = ""
	o.notice = ""
	o.translation = false
	o.state = StateIdle
}

// renderResponseLocked converts the response for insertion. The caller
// must hold o.mu.
func (o *Orchestrator) renderResponseLocked() string {
	if o.converter == nil {
		return o.response
	}
	rich, err := o.converter.ToRichText(o.response)
	if err != nil {
		log.Printf("markdown conversion failed, inserting raw text: %v", err)
		return o.response
	}
	return rich
}
