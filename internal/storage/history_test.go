// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_AppendAndReload(t *testing.T) {
	dir := t.TempDir()

	h, err := NewHistory(dir, 10)
	require.NoError(t, err)

	require.NoError(t, h.Append("make it shorter", ""))
	require.NoError(t, h.Append("", "polish"))
	assert.Equal(t, 2, h.Len())

	// A fresh History sees what the first one persisted.
	h2, err := NewHistory(dir, 10)
	require.NoError(t, err)

	entries := h2.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "make it shorter", entries[0].Prompt)
	assert.Equal(t, "polish", entries[1].Action)
}

func TestHistory_SkipsEmptyPrompt(t *testing.T) {
	h, err := NewHistory(t.TempDir(), 10)
	require.NoError(t, err)

	require.NoError(t, h.Append("   ", ""))
	assert.Equal(t, 0, h.Len())
}

func TestHistory_CapDropsOldest(t *testing.T) {
	h, err := NewHistory(t.TempDir(), 3)
	require.NoError(t, err)

	for _, p := range []string{"one", "two", "three", "four"} {
		require.NoError(t, h.Append(p, ""))
	}

	entries := h.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "two", entries[0].Prompt)
	assert.Equal(t, "four", entries[2].Prompt)
}

func TestHistory_RecentNewestFirst(t *testing.T) {
	h, err := NewHistory(t.TempDir(), 10)
	require.NoError(t, err)

	for _, p := range []string{"one", "two", "three"} {
		require.NoError(t, h.Append(p, ""))
	}

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "three", recent[0].Prompt)
	assert.Equal(t, "two", recent[1].Prompt)

	all := h.Recent(99)
	assert.Len(t, all, 3)
}

func TestHistory_Search(t *testing.T) {
	h, err := NewHistory(t.TempDir(), 10)
	require.NoError(t, err)

	require.NoError(t, h.Append("Translate to French", ""))
	require.NoError(t, h.Append("fix grammar", ""))

	hits := h.Search("translate")
	require.Len(t, hits, 1)
	assert.Equal(t, "Translate to French", hits[0].Prompt)
}

func TestHistory_Clear(t *testing.T) {
	dir := t.TempDir()

	h, err := NewHistory(dir, 10)
	require.NoError(t, err)
	require.NoError(t, h.Append("something", ""))
	require.NoError(t, h.Clear())
	assert.Equal(t, 0, h.Len())

	h2, err := NewHistory(dir, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, h2.Len())
}

func TestHistory_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte("{broken"), 0644))

	h, err := NewHistory(dir, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
}
