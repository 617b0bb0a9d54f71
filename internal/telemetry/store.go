// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package telemetry

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jeranaias/inkwell/internal/session"
)

// =============================================================================
// SCHEMA
// =============================================================================

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id             TEXT PRIMARY KEY,
	started_at     INTEGER NOT NULL,
	first_delta_ms INTEGER NOT NULL,
	deltas         INTEGER NOT NULL,
	duration_ms    INTEGER NOT NULL,
	status         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at);
`

// =============================================================================
// USAGE STORE
// =============================================================================

// Store records generation session stats in a local SQLite database.
// It satisfies the orchestrator's StatsSink. The *sql.DB handles its
// own locking, so Store is safe for concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the usage database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usage database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record persists one session's stats. Errors are swallowed: a
// telemetry write must never disturb the editing flow.
func (s *Store) Record(stats session.Stats) {
	_, _ = s.db.Exec(
		`INSERT OR REPLACE INTO sessions
		 (id, started_at, first_delta_ms, deltas, duration_ms, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		stats.SessionID,
		stats.StartedAt.UnixMilli(),
		stats.FirstDelta.Milliseconds(),
		stats.Deltas,
		stats.Duration.Milliseconds(),
		stats.Status.String(),
	)
}

// =============================================================================
// QUERIES
// =============================================================================

// Summary aggregates session stats for a time period.
type Summary struct {
	Sessions     int
	Completed    int
	Aborted      int
	Failed       int
	TotalDeltas  int
	AvgFirstWait time.Duration // mean time to first delta across sessions that streamed
}

// Summary returns aggregated stats for sessions started in [from, to].
func (s *Store) Summary(from, to time.Time) (Summary, error) {
	var sum Summary

	rows, err := s.db.Query(
		`SELECT status, deltas, first_delta_ms FROM sessions
		 WHERE started_at >= ? AND started_at <= ?`,
		from.UnixMilli(), to.UnixMilli(),
	)
	if err != nil {
		return sum, err
	}
	defer rows.Close()

	var firstWaitTotal int64
	var firstWaitCount int

	for rows.Next() {
		var status string
		var deltas int
		var firstDeltaMs int64
		if err := rows.Scan(&status, &deltas, &firstDeltaMs); err != nil {
			return sum, err
		}

		sum.Sessions++
		sum.TotalDeltas += deltas
		switch status {
		case "completed":
			sum.Completed++
		case "aborted":
			sum.Aborted++
		case "failed":
			sum.Failed++
		}
		if firstDeltaMs > 0 {
			firstWaitTotal += firstDeltaMs
			firstWaitCount++
		}
	}
	if err := rows.Err(); err != nil {
		return sum, err
	}

	if firstWaitCount > 0 {
		sum.AvgFirstWait = time.Duration(firstWaitTotal/int64(firstWaitCount)) * time.Millisecond
	}
	return sum, nil
}

// Recent returns up to n session stats, newest first.
func (s *Store) Recent(n int) ([]session.Stats, error) {
	rows, err := s.db.Query(
		`SELECT id, started_at, first_delta_ms, deltas, duration_ms, status
		 FROM sessions ORDER BY started_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []session.Stats
	for rows.Next() {
		var st session.Stats
		var startedMs, firstMs, durMs int64
		var status string
		if err := rows.Scan(&st.SessionID, &startedMs, &firstMs, &st.Deltas, &durMs, &status); err != nil {
			return nil, err
		}
		st.StartedAt = time.UnixMilli(startedMs)
		st.FirstDelta = time.Duration(firstMs) * time.Millisecond
		st.Duration = time.Duration(durMs) * time.Millisecond
		st.Status = parseStatus(status)
		out = append(out, st)
	}
	return out, rows.Err()
}

// Count returns the number of recorded sessions.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n)
	return n, err
}

// PruneBefore deletes sessions started before the given time and
// returns how many rows went away.
func (s *Store) PruneBefore(before time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE started_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func parseStatus(s string) session.Status {
	switch s {
	case "streaming":
		return session.StatusStreaming
	case "completed":
		return session.StatusCompleted
	case "aborted":
		return session.StatusAborted
	case "failed":
		return session.StatusFailed
	default:
		return session.StatusIdle
	}
}
