// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/inkwell/internal/cloud"
	"github.com/jeranaias/inkwell/internal/sse"
)

// fakeStreamer scripts the transport side of a session.
type fakeStreamer struct {
	run func(ctx context.Context, cb cloud.StreamCallback) error
}

func (f *fakeStreamer) StreamChat(ctx context.Context, _ cloud.ChatRequest, cb cloud.StreamCallback) error {
	return f.run(ctx, cb)
}

// recorder collects snapshots from the streaming goroutine.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) notify(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}
}

func TestSession_StreamsToCompletion(t *testing.T) {
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		for _, piece := range []string{"The ", "quick ", "brown ", "fox"} {
			cb(sse.ContentDelta(piece))
		}
		cb(sse.Done())
		return nil
	}}

	rec := &recorder{}
	s := New(streamer, rec.notify)
	if s.Status() != StatusIdle {
		t.Fatalf("new session status = %v", s.Status())
	}

	if err := s.Start(context.Background(), cloud.ChatRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, s)

	if s.Status() != StatusCompleted {
		t.Errorf("status = %v, want completed", s.Status())
	}
	if s.Content() != "The quick brown fox" {
		t.Errorf("content = %q", s.Content())
	}

	snaps := rec.all()
	if len(snaps) != 5 {
		t.Fatalf("snapshot count = %d, want 4 deltas + final", len(snaps))
	}
	final := snaps[len(snaps)-1]
	if !final.Done() || final.Status != StatusCompleted {
		t.Errorf("final snapshot = %+v", final)
	}

	// Content only grows: each snapshot extends the previous one.
	for i := 1; i < len(snaps); i++ {
		if !strings.HasPrefix(snaps[i].Content, snaps[i-1].Content) {
			t.Errorf("snapshot %d content %q does not extend %q",
				i, snaps[i].Content, snaps[i-1].Content)
		}
	}
}

func TestSession_AbortIsSilent(t *testing.T) {
	firstDelivered := make(chan struct{})
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		cb(sse.ContentDelta("partial"))
		close(firstDelivered)
		<-ctx.Done()
		// The transport keeps pushing while the connection unwinds.
		cb(sse.ContentDelta(" late chunk"))
		return ctx.Err()
	}}

	rec := &recorder{}
	s := New(streamer, rec.notify)
	if err := s.Start(context.Background(), cloud.ChatRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	<-firstDelivered
	s.Abort()
	waitDone(t, s)

	if s.Status() != StatusAborted {
		t.Errorf("status = %v, want aborted", s.Status())
	}
	if s.Content() != "partial" {
		t.Errorf("content = %q, late chunk should be dropped", s.Content())
	}

	// Exactly the one pre-abort snapshot: no late delta, no error, no
	// terminal notification.
	snaps := rec.all()
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %+v, want only the pre-abort delta", snaps)
	}
	if snaps[0].Content != "partial" {
		t.Errorf("snapshot content = %q", snaps[0].Content)
	}
}

func TestSession_AbortIsIdempotent(t *testing.T) {
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		<-ctx.Done()
		return ctx.Err()
	}}

	s := New(streamer, nil)
	if err := s.Start(context.Background(), cloud.ChatRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Abort()
	s.Abort()
	s.Abort()
	waitDone(t, s)

	if s.Status() != StatusAborted {
		t.Errorf("status = %v", s.Status())
	}
}

func TestSession_AbortBeforeStart(t *testing.T) {
	s := New(&fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		t.Error("stream should never run")
		return nil
	}}, nil)

	s.Abort()
	waitDone(t, s)

	if err := s.Start(context.Background(), cloud.ChatRequest{}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("Start after abort = %v, want ErrAlreadyStarted", err)
	}
	if s.Status() != StatusAborted {
		t.Errorf("status = %v", s.Status())
	}
}

func TestSession_StartTwice(t *testing.T) {
	block := make(chan struct{})
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		<-block
		return nil
	}}

	s := New(streamer, nil)
	if err := s.Start(context.Background(), cloud.ChatRequest{}); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := s.Start(context.Background(), cloud.ChatRequest{}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
	close(block)
	waitDone(t, s)
}

func TestSession_FailureSnapshot(t *testing.T) {
	wantErr := &cloud.APIError{Code: "internal", Message: "boom", Status: 500}
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		cb(sse.ContentDelta("before the"))
		return wantErr
	}}

	rec := &recorder{}
	s := New(streamer, rec.notify)
	if err := s.Start(context.Background(), cloud.ChatRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, s)

	if s.Status() != StatusFailed {
		t.Errorf("status = %v, want failed", s.Status())
	}
	if !errors.Is(s.Err(), wantErr) {
		t.Errorf("Err() = %v", s.Err())
	}

	snaps := rec.all()
	final := snaps[len(snaps)-1]
	if final.Status != StatusFailed || final.Err == nil {
		t.Errorf("final snapshot = %+v", final)
	}
	if final.Notice != "" {
		t.Errorf("generic failure should carry no notice, got %q", final.Notice)
	}
	// Partial content survives into the failure snapshot.
	if final.Content != "before the" {
		t.Errorf("final content = %q", final.Content)
	}
}

func TestSession_RateLimitNotice(t *testing.T) {
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		return &cloud.RateLimitError{Window: 3600, Limit: 5}
	}}

	rec := &recorder{}
	s := New(streamer, rec.notify)
	if err := s.Start(context.Background(), cloud.ChatRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, s)

	snaps := rec.all()
	if len(snaps) != 1 {
		t.Fatalf("snapshot count = %d", len(snaps))
	}
	final := snaps[0]
	if final.Status != StatusFailed {
		t.Errorf("status = %v", final.Status)
	}
	want := "You have reached the limit of 5 requests per 1 hour(s). Please try again later."
	if final.Notice != want {
		t.Errorf("notice = %q, want %q", final.Notice, want)
	}
	if !errors.Is(final.Err, cloud.ErrRateLimited) {
		t.Errorf("Err = %v, should match ErrRateLimited", final.Err)
	}
}

func TestSession_ParentCancelIsSilent(t *testing.T) {
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		cb(sse.ContentDelta("some"))
		<-ctx.Done()
		return ctx.Err()
	}}

	rec := &recorder{}
	s := New(streamer, rec.notify)
	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx, cloud.ChatRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Give the delta time to land, then pull the parent context.
	for s.Content() == "" {
		time.Sleep(time.Millisecond)
	}
	cancel()
	waitDone(t, s)

	if s.Status() != StatusAborted {
		t.Errorf("status = %v, want aborted", s.Status())
	}
	for _, snap := range rec.all() {
		if snap.Status.Terminal() {
			t.Errorf("terminal snapshot delivered after external cancel: %+v", snap)
		}
	}
}

func TestSession_Stats(t *testing.T) {
	streamer := &fakeStreamer{run: func(ctx context.Context, cb cloud.StreamCallback) error {
		cb(sse.ContentDelta("a"))
		cb(sse.ContentDelta("b"))
		return nil
	}}

	s := New(streamer, nil)
	if err := s.Start(context.Background(), cloud.ChatRequest{}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitDone(t, s)

	stats := s.Stats()
	if stats.Deltas != 2 {
		t.Errorf("Deltas = %d", stats.Deltas)
	}
	if stats.SessionID != s.ID() || stats.SessionID == "" {
		t.Errorf("SessionID = %q", stats.SessionID)
	}
	if stats.Status != StatusCompleted {
		t.Errorf("Status = %v", stats.Status)
	}
	if stats.Duration <= 0 {
		t.Errorf("Duration = %v", stats.Duration)
	}
}

func TestStatus_Strings(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusIdle, "idle"},
		{StatusStreaming, "streaming"},
		{StatusCompleted, "completed"},
		{StatusAborted, "aborted"},
		{StatusFailed, "failed"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.status, got, tt.want)
		}
	}
	if StatusStreaming.Terminal() {
		t.Error("streaming is not terminal")
	}
	if !StatusAborted.Terminal() {
		t.Error("aborted is terminal")
	}
}
