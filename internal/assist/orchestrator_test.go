// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assist

import (
	"context"
	"fmt"
	"testing"

	"github.com/jeranaias/inkwell/internal/cloud"
	"github.com/jeranaias/inkwell/internal/diffview"
	"github.com/jeranaias/inkwell/internal/editor"
	"github.com/jeranaias/inkwell/internal/session"
)

// fakeSession stands in for a streaming session. Tests drive progress
// by calling the orchestrator's snapshot handler directly, which is
// exactly how the real session's goroutine delivers it.
type fakeSession struct {
	id      string
	req     cloud.ChatRequest
	started bool
	aborts  int
}

func (f *fakeSession) ID() string { return f.id }

func (f *fakeSession) Start(_ context.Context, req cloud.ChatRequest) error {
	f.started = true
	f.req = req
	return nil
}

func (f *fakeSession) Abort() { f.aborts++ }

func (f *fakeSession) Status() session.Status {
	if !f.started {
		return session.StatusIdle
	}
	return session.StatusStreaming
}

func (f *fakeSession) Content() string      { return "" }
func (f *fakeSession) Stats() session.Stats { return session.Stats{SessionID: f.id} }

type fixture struct {
	doc      *editor.Buffer
	h        *editor.Highlighter
	o        *Orchestrator
	sessions []*fakeSession
	focus    editor.FocusRegion
}

func newFixture(t *testing.T, text string) *fixture {
	t.Helper()
	f := &fixture{focus: editor.RegionEditor}
	f.doc = editor.NewBuffer(text)
	f.h = editor.NewHighlighter(f.doc, func() editor.FocusRegion { return f.focus })
	diffCtrl := diffview.NewController(f.doc, f.h, diffview.NewTerminalView())

	f.o = NewOrchestrator(context.Background(), Config{
		Document:    f.doc,
		Highlighter: f.h,
		Diff:        diffCtrl,
		Streamer:    nil,
	})
	f.o.factory = func(notify session.NotifyFunc) GenerationSession {
		s := &fakeSession{id: fmt.Sprintf("session-%d", len(f.sessions)+1)}
		f.sessions = append(f.sessions, s)
		return s
	}
	return f
}

// last returns the most recently created session.
func (f *fixture) last() *fakeSession {
	if len(f.sessions) == 0 {
		return nil
	}
	return f.sessions[len(f.sessions)-1]
}

// delta delivers a content snapshot for the given session.
func (f *fixture) delta(id, content string) {
	f.o.handleSnapshot(session.Snapshot{ID: id, Status: session.StatusStreaming, Content: content})
}

// complete delivers the terminal completed snapshot.
func (f *fixture) complete(id, content string) {
	f.o.handleSnapshot(session.Snapshot{ID: id, Status: session.StatusCompleted, Content: content})
}

// selectRange sets the document selection.
func (f *fixture) selectRange(index, length int) {
	r := editor.NewRange(index, length)
	f.doc.SetSelection(&r)
}

func TestOrchestrator_OpenMenuHighlightsSelection(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)

	f.o.OpenMenu()

	if f.o.State() != StateMenuOpen {
		t.Errorf("state = %v", f.o.State())
	}
	if f.h.Active() == nil {
		t.Error("selection not highlighted")
	}
}

func TestOrchestrator_OpenMenuCaretOnly(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(3, 0)

	f.o.OpenMenu()

	if f.o.State() != StateMenuOpen {
		t.Errorf("state = %v", f.o.State())
	}
	if f.h.Active() != nil {
		t.Error("caret-only position should not highlight")
	}
}

func TestOrchestrator_SubmitCapturesSelectionAtSubmitTime(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()

	// Selection moves while the menu is visible.
	f.selectRange(6, 5)
	f.o.Submit("improve this")

	r := f.o.CurrentRange()
	if r == nil || r.Index != 6 || r.Length != 5 {
		t.Errorf("captured range = %v, want the submit-time selection", r)
	}
	if f.o.State() != StateGenerating {
		t.Errorf("state = %v", f.o.State())
	}

	s := f.last()
	if s == nil || !s.started {
		t.Fatal("no session started")
	}
	// The selected text rides along with the prompt.
	user := s.req.Messages[len(s.req.Messages)-1]
	if user.Content != "improve this\n\nworld" {
		t.Errorf("user message = %q", user.Content)
	}
}

func TestOrchestrator_StreamingToResponseReady(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	id := f.last().id
	f.delta(id, "Hel")
	f.delta(id, "Hello")
	if f.o.ResponseText() != "Hello" {
		t.Errorf("response = %q", f.o.ResponseText())
	}
	if f.o.State() != StateGenerating {
		t.Errorf("state = %v", f.o.State())
	}

	f.complete(id, "Hello")
	if f.o.State() != StateResponseReady {
		t.Errorf("state = %v", f.o.State())
	}
	if f.o.ResponseText() != "Hello" {
		t.Errorf("response = %q", f.o.ResponseText())
	}
}

// Regenerate aborts the in-flight session exactly once and late chunks
// from it never bleed into the new session's response.
func TestOrchestrator_RegenerateAbortsPriorSession(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	first := f.last()
	f.delta(first.id, "par")
	f.delta(first.id, "partial")

	f.o.Regenerate()

	if first.aborts != 1 {
		t.Errorf("first session aborts = %d, want exactly 1", first.aborts)
	}
	if len(f.sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(f.sessions))
	}
	second := f.last()
	if !second.started {
		t.Error("second session not started")
	}
	if f.o.ResponseText() != "" {
		t.Errorf("response = %q, should reset on regenerate", f.o.ResponseText())
	}

	// A late chunk from the dead session arrives after the swap.
	f.delta(first.id, "partial plus late")
	if f.o.ResponseText() != "" {
		t.Errorf("late chunk from old session landed: %q", f.o.ResponseText())
	}

	f.delta(second.id, "fresh")
	if f.o.ResponseText() != "fresh" {
		t.Errorf("response = %q", f.o.ResponseText())
	}
}

func TestOrchestrator_AbortKeepsPartialContent(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	id := f.last().id
	f.delta(id, "partial text")
	f.o.Abort()

	if f.last().aborts != 1 {
		t.Errorf("aborts = %d", f.last().aborts)
	}
	if f.o.State() != StateResponseReady {
		t.Errorf("state = %v", f.o.State())
	}
	if f.o.ResponseText() != "partial text" {
		t.Errorf("response = %q", f.o.ResponseText())
	}
	if f.o.ErrorText() != "" {
		t.Errorf("abort produced an error: %q", f.o.ErrorText())
	}
}

func TestOrchestrator_AbortWithNothingStreamed(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")
	f.o.Abort()

	if f.o.State() != StateMenuOpen {
		t.Errorf("state = %v, want back to the menu", f.o.State())
	}
}

func TestOrchestrator_RateLimitNotice(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	id := f.last().id
	f.o.handleSnapshot(session.Snapshot{
		ID:     id,
		Status: session.StatusFailed,
		Err:    &cloud.RateLimitError{Window: 3600, Limit: 5},
		Notice: "You have reached the limit of 5 requests per 1 hour(s). Please try again later.",
	})

	if f.o.Notice() == "" {
		t.Error("quota notice missing")
	}
	if f.o.ErrorText() != "" {
		t.Errorf("quota failure should not show a generic error, got %q", f.o.ErrorText())
	}
	if f.o.State() != StateMenuOpen {
		t.Errorf("state = %v", f.o.State())
	}
}

func TestOrchestrator_GenericFailure(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	id := f.last().id
	f.o.handleSnapshot(session.Snapshot{
		ID:     id,
		Status: session.StatusFailed,
		Err:    &cloud.APIError{Message: "upstream exploded", Status: 500},
	})

	if f.o.ErrorText() == "" {
		t.Error("failure message missing")
	}
	if f.o.Notice() != "" {
		t.Errorf("generic failure should carry no notice, got %q", f.o.Notice())
	}
}

func TestOrchestrator_Replace(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")
	f.complete(f.last().id, "Greetings")

	f.o.Replace()

	if f.doc.Text() != "Greetings world" {
		t.Errorf("document = %q", f.doc.Text())
	}
	if f.o.State() != StateIdle {
		t.Errorf("state = %v", f.o.State())
	}
	if f.o.CurrentRange() != nil {
		t.Error("range not cleared after replace")
	}
	if f.h.Active() != nil {
		t.Error("highlight not cleared after replace")
	}
}

func TestOrchestrator_InsertAfter(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("continue")
	f.complete(f.last().id, "and more")

	f.o.InsertAfter()

	if f.doc.Text() != "hello\nand more world" {
		t.Errorf("document = %q", f.doc.Text())
	}
	if f.o.State() != StateIdle {
		t.Errorf("state = %v", f.o.State())
	}
}

func TestOrchestrator_CompareAndAcceptReplace(t *testing.T) {
	f := newFixture(t, "0123456789Hello rest")
	f.selectRange(10, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")
	f.complete(f.last().id, "Greetings")

	if !f.o.CanCompare() {
		t.Fatal("compare should be available")
	}
	if err := f.o.Compare(); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if f.o.State() != StateDiffOpen {
		t.Errorf("state = %v", f.o.State())
	}

	if err := f.o.DiffAcceptReplace(); err != nil {
		t.Fatalf("DiffAcceptReplace: %v", err)
	}

	got := f.doc.GetText(editor.NewRange(10, len("Greetings")))
	if got != "Greetings" {
		t.Errorf("text at replacement = %q", got)
	}
	if f.o.State() != StateIdle {
		t.Errorf("state = %v", f.o.State())
	}
	if f.o.CurrentRange() != nil {
		t.Error("range not cleared")
	}
	if f.h.Active() != nil {
		t.Error("highlight not cleared")
	}
}

func TestOrchestrator_DiffCancelLeavesDocument(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")
	f.complete(f.last().id, "Greetings")

	if err := f.o.Compare(); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	f.o.DiffCancel()

	if f.doc.Text() != "hello world" {
		t.Errorf("document = %q", f.doc.Text())
	}
	if f.o.State() != StateIdle {
		t.Errorf("state = %v", f.o.State())
	}
}

func TestOrchestrator_TranslationSuppressesCompare(t *testing.T) {
	f := newFixture(t, "你好世界 and more")
	f.selectRange(0, 4)
	f.o.OpenMenu()
	f.o.Submit("请翻译成English")
	f.complete(f.last().id, "Hello world")

	if f.o.CanCompare() {
		t.Error("compare should be suppressed for translation prompts")
	}
	if err := f.o.Compare(); err == nil {
		t.Error("Compare should refuse for translation prompts")
	}
	// The other response actions remain available.
	f.o.Replace()
	if f.o.State() != StateIdle {
		t.Errorf("state = %v", f.o.State())
	}
}

func TestOrchestrator_CaretOnlySuppressesCompare(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(5, 0)
	f.o.OpenMenu()
	f.o.Submit("write a haiku")
	f.complete(f.last().id, "a haiku")

	if f.o.CanCompare() {
		t.Error("compare needs a real selection")
	}
}

func TestOrchestrator_QuickActionUsesHiddenPrompt(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.SubmitAction(ActionPolish)

	s := f.last()
	if s == nil {
		t.Fatal("no session started")
	}
	user := s.req.Messages[len(s.req.Messages)-1]
	if user.Content == "" || user.Content == "hello" {
		t.Errorf("user message = %q, want hidden prompt plus selection", user.Content)
	}
}

func TestOrchestrator_TranslateActionSuppressesCompare(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.SubmitAction(ActionTranslate)
	f.complete(f.last().id, "bonjour")

	if f.o.CanCompare() {
		t.Error("translate action should suppress compare")
	}
}

func TestOrchestrator_OutsideClickTearsDown(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	f.o.HandleOutsideClick(editor.RegionEditor)

	if f.o.State() != StateIdle {
		t.Errorf("state = %v", f.o.State())
	}
	if f.last().aborts != 1 {
		t.Errorf("in-flight session aborts = %d", f.last().aborts)
	}
	if f.h.Active() != nil {
		t.Error("highlight survived teardown")
	}
}

func TestOrchestrator_OutsideClickIgnoresExclusionSet(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	for _, region := range []editor.FocusRegion{
		editor.RegionPromptInput,
		editor.RegionFloatingPanel,
		editor.RegionMenu,
		editor.RegionResponsePanel,
		editor.RegionColorPicker,
		editor.RegionBackgroundPicker,
	} {
		f.o.HandleOutsideClick(region)
		if f.o.State() != StateGenerating {
			t.Errorf("click in %v tore down the interaction", region)
		}
	}
	if f.last().aborts != 0 {
		t.Errorf("aborts = %d, want 0", f.last().aborts)
	}
}

func TestOrchestrator_ClicksDisabledFlag(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.SetClicksEnabled(false)

	f.o.HandleOutsideClick(editor.RegionEditor)
	if f.o.State() != StateMenuOpen {
		t.Errorf("disabled handler still tore down: state = %v", f.o.State())
	}
}

func TestOrchestrator_Copy(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	if f.o.Copy() != "" {
		t.Error("copy should be empty while generating")
	}
	f.complete(f.last().id, "the response")
	if f.o.Copy() != "the response" {
		t.Errorf("Copy() = %q", f.o.Copy())
	}
	// Copy does not consume the response.
	if f.o.State() != StateResponseReady {
		t.Errorf("state = %v", f.o.State())
	}
}

func TestOrchestrator_DisposeIsIdempotent(t *testing.T) {
	f := newFixture(t, "hello world")
	f.selectRange(0, 5)
	f.o.OpenMenu()
	f.o.Submit("rewrite")

	f.o.Dispose()
	f.o.Dispose()

	if f.o.State() != StateIdle {
		t.Errorf("state = %v", f.o.State())
	}
	if f.last().aborts != 1 {
		t.Errorf("aborts = %d", f.last().aborts)
	}
}

func TestIsTranslationPrompt(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"please translate this", true},
		{"Translate to French", true},
		{"把这个翻译一下", true},
		{"转成中文", true},
		{"Rewrite in plain English", true},
		{"make it shorter", false},
		{"fix the grammar", false},
	}

	for _, tt := range tests {
		if got := isTranslationPrompt(tt.prompt); got != tt.want {
			t.Errorf("isTranslationPrompt(%q) = %v, want %v", tt.prompt, got, tt.want)
		}
	}
}
