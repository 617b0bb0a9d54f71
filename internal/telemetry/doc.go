// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package telemetry provides local usage tracking for inkwell.
//
// Every generation session leaves one row in a SQLite database: when
// it started, how long the first delta took, how many deltas arrived,
// and how it ended. The data feeds the usage view and nothing else.
//
// # Key Types
//
//   - Store: SQLite-backed session stats store
//   - Summary: aggregated statistics for a time period
//
// # Usage
//
// Open a store and record a session:
//
//	store, err := telemetry.Open(dbPath)
//	store.Record(stats)
//
// Get a usage summary:
//
//	summary, err := store.Summary(time.Now().AddDate(0, 0, -7), time.Now())
//
// # Privacy
//
// Usage tracking is local-only and does not transmit any data.
// Prompt and response content is never stored, only timings and
// outcomes.
package telemetry
