// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/inkwell/internal/util"
)

// historyFileBase is the history filename without extension. The
// draft lister skips it.
const historyFileBase = "history"

// =============================================================================
// HISTORY ENTRY TYPE
// =============================================================================

// HistoryEntry records one submitted prompt.
type HistoryEntry struct {
	Prompt    string    `json:"prompt"`
	Action    string    `json:"action,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// =============================================================================
// PROMPT HISTORY
// =============================================================================

// History keeps a capped record of submitted prompts in a single JSON
// file, newest last. Safe for concurrent use.
type History struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	entries    []HistoryEntry
}

// NewHistory opens (or creates) the history file in the given
// directory. maxEntries caps the record; older entries are dropped on
// append.
func NewHistory(dir string, maxEntries int) (*History, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	if maxEntries < 1 {
		maxEntries = 1
	}

	h := &History{
		path:       filepath.Join(dir, historyFileBase+".json"),
		maxEntries: maxEntries,
	}

	data, err := os.ReadFile(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &h.entries); err != nil {
		// A corrupted history file is not worth failing startup over.
		h.entries = nil
	}
	return h, nil
}

// Append records a prompt and persists the history.
func (h *History) Append(prompt, action string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" && action == "" {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, HistoryEntry{
		Prompt:    prompt,
		Action:    action,
		Timestamp: time.Now(),
	})
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}

	return h.flushLocked()
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]HistoryEntry, 0, n)
	for i := len(h.entries) - 1; i >= len(h.entries)-n; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Search returns entries whose prompt contains the query
// (case-insensitive), newest first.
func (h *History) Search(query string) []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	query = strings.ToLower(query)
	var out []HistoryEntry
	for i := len(h.entries) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(h.entries[i].Prompt), query) {
			out = append(out, h.entries[i])
		}
	}
	return out
}

// Clear removes all entries and persists the empty history.
func (h *History) Clear() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
	return h.flushLocked()
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

func (h *History) flushLocked() error {
	data, err := json.MarshalIndent(h.entries, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(h.path, data, 0644)
}
