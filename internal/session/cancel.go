// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"
)

// =============================================================================
// CANCEL FUNCTION MANAGEMENT (THREAD-SAFE)
// =============================================================================

// cancelManager guards the stream's cancel function with a mutex.
// The cancel function is set from the caller's goroutine and invoked
// from whichever goroutine aborts the session, so unsynchronized
// access would race. Use as a pointer: the zero value works but
// copying it would copy the mutex.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// set stores a new cancel function, cancelling any previous one so a
// replaced context is never leaked.
func (cm *cancelManager) set(fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
	}
	cm.cancelFunc = fn
}

// cancel invokes the stored cancel function and clears it.
// Safe to call multiple times or with nothing set.
func (cm *cancelManager) cancel() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
		cm.cancelFunc = nil
	}
}
