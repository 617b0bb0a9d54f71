// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides draft and prompt-history persistence for
// inkwell.
//
// Drafts are the user's documents; each is a JSON file under the draft
// directory, written atomically so a crash mid-save never corrupts
// work. Prompt history is a single capped JSON file recording what the
// user asked the assistant.
//
// # Key Types
//
//   - DraftStore: saves, loads, lists, and searches drafts
//   - StoredDraft: serializable draft with metadata
//   - History: capped record of submitted prompts
//
// # Usage
//
// Create a store and save a draft:
//
//	store, err := storage.NewDraftStoreWithDir(dir)
//	id, err := store.Save(draft)
//
// List and load drafts:
//
//	metas, err := store.List()
//	draft, err := store.Load(metas[0].ID)
//
// # Storage Location
//
// Drafts live in ~/.inkwell/drafts/ as JSON files; history in
// ~/.inkwell/drafts/history.json.
package storage
