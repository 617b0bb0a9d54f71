// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jeranaias/inkwell/internal/util"
)

// =============================================================================
// STORED DRAFT TYPE
// =============================================================================

// StoredDraft represents a persisted draft document.
type StoredDraft struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// WordCount is cached at save time for listing without loading content.
	WordCount int `json:"word_count"`
}

// DraftMeta contains metadata for listing drafts.
type DraftMeta struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	WordCount int       `json:"word_count"`
	Preview   string    `json:"preview"`
}

// =============================================================================
// DRAFT STORE
// =============================================================================

// DraftStore handles draft persistence.
type DraftStore struct {
	// BaseDir is the directory for storing drafts.
	BaseDir string

	// MaxDrafts limits stored drafts (0 = unlimited). Oldest drafts are
	// dropped when the limit is exceeded.
	MaxDrafts int
}

// NewDraftStore creates a store rooted at ~/.inkwell/drafts.
func NewDraftStore() (*DraftStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewDraftStoreWithDir(filepath.Join(homeDir, ".inkwell", "drafts"))
}

// NewDraftStoreWithDir creates a store with a custom directory.
func NewDraftStoreWithDir(baseDir string) (*DraftStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &DraftStore{
		BaseDir:   baseDir,
		MaxDrafts: 0,
	}, nil
}

// =============================================================================
// SAVE OPERATIONS
// =============================================================================

// Save persists a draft and returns its ID.
func (s *DraftStore) Save(draft *StoredDraft) (string, error) {
	if draft.ID == "" {
		draft.ID = generateDraftID()
	}
	if draft.Title == "" {
		draft.Title = titleFromContent(draft.Content)
	}

	draft.UpdatedAt = time.Now()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = draft.UpdatedAt
	}
	draft.WordCount = len(strings.Fields(draft.Content))

	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return "", err
	}

	// Atomic write with fsync so a crash mid-save never loses the draft.
	if err := util.AtomicWriteFile(s.filePath(draft.ID), data, 0644); err != nil {
		return "", err
	}

	if s.MaxDrafts > 0 {
		s.enforceLimit()
	}

	return draft.ID, nil
}

// titleFromContent derives a title from the first non-empty line.
func titleFromContent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "# "))
		if line != "" {
			return util.TruncateRunes(line, 50)
		}
	}
	return "Untitled draft"
}

// enforceLimit removes the oldest drafts when over the cap.
func (s *DraftStore) enforceLimit() {
	metas, err := s.List()
	if err != nil || len(metas) <= s.MaxDrafts {
		return
	}

	// List returns most recent first, so the tail is the oldest.
	for _, meta := range metas[s.MaxDrafts:] {
		s.Delete(meta.ID)
	}
}

// =============================================================================
// LOAD OPERATIONS
// =============================================================================

// Load retrieves a draft by ID.
func (s *DraftStore) Load(id string) (*StoredDraft, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}

	var draft StoredDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// LoadByIndex loads a draft by list position (0 = most recent).
func (s *DraftStore) LoadByIndex(index int) (*StoredDraft, error) {
	metas, err := s.List()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(metas) {
		return nil, ErrDraftNotFound
	}
	return s.Load(metas[index].ID)
}

// =============================================================================
// LIST OPERATIONS
// =============================================================================

// List returns all saved drafts (most recent first).
func (s *DraftStore) List() ([]DraftMeta, error) {
	entries, err := os.ReadDir(s.BaseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []DraftMeta{}, nil
		}
		return nil, err
	}

	var metas []DraftMeta

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		if id == historyFileBase {
			continue
		}

		draft, err := s.Load(id)
		if err != nil {
			continue // Skip corrupted files
		}

		metas = append(metas, DraftMeta{
			ID:        draft.ID,
			Title:     draft.Title,
			CreatedAt: draft.CreatedAt,
			UpdatedAt: draft.UpdatedAt,
			WordCount: draft.WordCount,
			Preview:   util.TruncateRunes(firstLine(draft.Content), 80),
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].UpdatedAt.After(metas[j].UpdatedAt)
	})

	return metas, nil
}

// Search finds drafts whose title or content matches a query
// (case-insensitive).
func (s *DraftStore) Search(query string) ([]DraftMeta, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return all, nil
	}

	query = strings.ToLower(query)
	var results []DraftMeta

	for _, meta := range all {
		if strings.Contains(strings.ToLower(meta.Title), query) {
			results = append(results, meta)
			continue
		}
		draft, err := s.Load(meta.ID)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(draft.Content), query) {
			results = append(results, meta)
		}
	}

	return results, nil
}

// =============================================================================
// DELETE OPERATIONS
// =============================================================================

// Delete removes a draft by ID.
func (s *DraftStore) Delete(id string) error {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrDraftNotFound
		}
		return err
	}
	return nil
}

// Clear removes all saved drafts.
func (s *DraftStore) Clear() error {
	metas, err := s.List()
	if err != nil {
		return err
	}
	for _, meta := range metas {
		os.Remove(s.filePath(meta.ID))
	}
	return nil
}

// =============================================================================
// EXPORT
// =============================================================================

// ExportMarkdown returns the draft as a markdown document with a
// title heading.
func (d *StoredDraft) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + d.Title + "\n\n")
	sb.WriteString(strings.TrimRight(d.Content, "\n"))
	sb.WriteString("\n")
	return sb.String()
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func (s *DraftStore) filePath(id string) string {
	return filepath.Join(s.BaseDir, id+".json")
}

func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}

// generateDraftID creates a unique draft ID.
func generateDraftID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "draft_" + hex.EncodeToString(bytes)
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrDraftNotFound is returned when a draft doesn't exist.
// Use errors.Is(err, ErrDraftNotFound) to check for this error.
var ErrDraftNotFound = &StoreError{Message: "draft not found"}

// StoreError represents a storage-related error.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing storage errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
