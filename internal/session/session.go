// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/inkwell/internal/cloud"
	"github.com/jeranaias/inkwell/internal/sse"
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the lifecycle state of a generation session.
type Status int

const (
	// StatusIdle means the session has not been started.
	StatusIdle Status = iota

	// StatusStreaming means content is arriving.
	StatusStreaming

	// StatusCompleted means the stream finished normally.
	StatusCompleted

	// StatusAborted means the user cancelled the generation.
	StatusAborted

	// StatusFailed means the stream ended with an error.
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusStreaming:
		return "streaming"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether the status is one of the three end states.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted || s == StatusFailed
}

// ErrAlreadyStarted is returned by Start on a session that has already run.
/// Sessions are single-use: a regenerate creates a fresh one.
var ErrAlreadyStarted = errors.New("session already started")

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a point-in-time view of a session, delivered to the
// notify callback on every content delta and on completion or failure.
// Content across successive snapshots only grows: each snapshot's
// content has the previous one as a prefix.
type Snapshot struct {
	ID      string
	Status  Status
	Content string
	Err     error

	// Notice is a user-facing message for errors that should be shown
	// as information rather than a failure, currently quota limits.
	Notice string
}

// Done reports whether the snapshot is from a completed stream.
func (s Snapshot) Done() bool {
	return s.Status == StatusCompleted
}

// Streamer is the transport a session generates through.
type Streamer interface {
	StreamChat(ctx context.Context, req cloud.ChatRequest, callback cloud.StreamCallback) error
}

// NotifyFunc receives session snapshots in order.
type NotifyFunc func(Snapshot)

// =============================================================================
// SESSION
// =============================================================================

// Stats summarizes a finished (or in-flight) session for usage tracking.
type Stats struct {
	SessionID  string
	StartedAt  time.Time
	FirstDelta time.Duration // time to first content delta, zero if none arrived
	Deltas     int
	Duration   time.Duration // zero until the session reaches a terminal state
	Status     Status
}

// Session is a single streaming generation. All methods are safe for
// concurrent use; snapshots are delivered from the streaming goroutine.
type Session struct {
	id        string
	streamer  Streamer
	notify    NotifyFunc
	cancelMgr *cancelManager
	done      chan struct{}

	mu         sync.Mutex
	status     Status
	content    strings.Builder
	err        error
	startedAt  time.Time
	firstDelta time.Duration
	deltas     int
	duration   time.Duration
}

// New creates an idle session. The notify callback may be nil.
func New(streamer Streamer, notify NotifyFunc) *Session {
	if notify == nil {
		notify = func(Snapshot) {}
	}
	return &Session{
		id:        uuid.NewString(),
		streamer:  streamer,
		notify:    notify,
		cancelMgr: newCancelManager(),
		done:      make(chan struct{}),
	}
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Content returns the text accumulated so far.
func (s *Session) Content() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.String()
}

// Err returns the failure error, nil unless the session failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done returns a channel closed when the session reaches a terminal
// state and its goroutine has exited.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Stats returns usage numbers for the session.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		SessionID:  s.id,
		StartedAt:  s.startedAt,
		FirstDelta: s.firstDelta,
		Deltas:     s.deltas,
		Duration:   s.duration,
		Status:     s.status,
	}
}

// Start begins streaming in a background goroutine. It returns
// ErrAlreadyStarted if the session has left the idle state; sessions
// never restart.
func (s *Session) Start(ctx context.Context, req cloud.ChatRequest) error {
	s.mu.Lock()
	if s.status != StatusIdle {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancelMgr.set(cancel)
	s.status = StatusStreaming
	s.startedAt = time.Now()
	s.mu.Unlock()

	go s.run(ctx, req)
	return nil
}

// Abort cancels a streaming session. After Abort returns, no further
// snapshots are delivered: chunks still in flight are dropped, and the
// transport error from tearing down the connection is swallowed. Safe
// to call at any time, including repeatedly or before Start.
func (s *Session) Abort() {
	s.mu.Lock()
	switch s.status {
	case StatusIdle:
		// Not started yet; mark aborted so a late Start refuses to run.
		s.status = StatusAborted
		s.duration = 0
		close(s.done)
	case StatusStreaming:
		s.status = StatusAborted
		s.duration = time.Since(s.startedAt)
	}
	s.mu.Unlock()

	s.cancelMgr.cancel()
}

// run drives the stream to a terminal state.
func (s *Session) run(ctx context.Context, req cloud.ChatRequest) {
	err := s.streamer.StreamChat(ctx, req, s.handleEvent)
	s.finish(err)
	s.cancelMgr.cancel()
	close(s.done)
}

// handleEvent processes one stream event. Deltas arriving after the
// session left the streaming state are dropped without notification.
func (s *Session) handleEvent(event sse.Event) {
	if event.Type != sse.EventContentDelta {
		// Completion is reported once, from finish.
		return
	}

	s.mu.Lock()
	if s.status != StatusStreaming {
		s.mu.Unlock()
		return
	}
	if s.deltas == 0 {
		s.firstDelta = time.Since(s.startedAt)
	}
	s.deltas++
	s.content.WriteString(event.Text)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// finish records the terminal state and emits the final snapshot,
// unless the session was aborted, in which case it stays silent.
func (s *Session) finish(err error) {
	s.mu.Lock()
	if s.status != StatusStreaming {
		// Aborted while streaming; the user already moved on.
		s.mu.Unlock()
		return
	}
	if err != nil && errors.Is(err, context.Canceled) {
		// The parent context was cancelled out from under us, for
		// example at shutdown. Treat like an abort.
		s.status = StatusAborted
		s.duration = time.Since(s.startedAt)
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.status = StatusFailed
		s.err = err
	} else {
		s.status = StatusCompleted
	}
	s.duration = time.Since(s.startedAt)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snap)
}

// snapshotLocked builds a Snapshot; the caller must hold s.mu.
func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		ID:      s.id,
		Status:  s.status,
		Content: s.content.String(),
		Err:     s.err,
		Notice:  noticeFor(s.err),
	}
}

// =============================================================================
// USER-FACING NOTICES
// =============================================================================

// noticeFor maps quota errors to the message shown to the user. Other
// errors carry no notice and render as failures.
func noticeFor(err error) string {
	if err == nil {
		return ""
	}
	var rl *cloud.RateLimitError
	if errors.As(err, &rl) {
		return fmt.Sprintf("You have reached the limit of %d requests per %g hour(s). Please try again later.",
			rl.Limit, rl.WindowHours())
	}
	if errors.Is(err, cloud.ErrRateLimited) {
		return "Too many requests. Please try again later."
	}
	return ""
}
