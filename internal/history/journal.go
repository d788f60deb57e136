// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// TYPES
// =============================================================================

// Attempt is one recorded authentication outcome.
type Attempt struct {
	ID        int64
	Timestamp time.Time
	Method    string
	Success   bool
	Reason    string
}

// Stats summarizes the journal.
type Stats struct {
	Total     int
	Successes int
	Failures  int
	LastAt    time.Time
}

// ErrClosed is returned after Close.
var ErrClosed = errors.New("attempt journal closed")

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	ts      INTEGER NOT NULL,
	method  TEXT NOT NULL,
	success INTEGER NOT NULL,
	reason  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_attempts_ts ON attempts(ts DESC);
`

// =============================================================================
// JOURNAL
// =============================================================================

// Journal is a SQLite-backed attempt log. Safe for concurrent use; the
// connection pool is capped at one because SQLite allows a single writer.
type Journal struct {
	db *sql.DB

	// now is the clock, injectable for tests.
	now func() time.Time
}

// Open creates or opens the journal database at path.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to configure journal database: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create journal schema: %w", err)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Record appends one attempt outcome. Implements the controller's sink
// interface.
func (j *Journal) Record(method string, success bool, reason string) error {
	if j.db == nil {
		return ErrClosed
	}
	_, err := j.db.Exec(
		"INSERT INTO attempts (ts, method, success, reason) VALUES (?, ?, ?, ?)",
		j.now().UnixMilli(), method, boolToInt(success), reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record attempt: %w", err)
	}
	return nil
}

// Recent returns the latest attempts, newest first.
func (j *Journal) Recent(limit int) ([]Attempt, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.Query(
		"SELECT id, ts, method, success, reason FROM attempts ORDER BY ts DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var millis int64
		var success int
		if err := rows.Scan(&a.ID, &millis, &a.Method, &success, &a.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		a.Timestamp = time.UnixMilli(millis)
		a.Success = success != 0
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attempts: %w", err)
	}
	return out, nil
}

// Stats returns aggregate counts over the whole journal.
func (j *Journal) Stats() (Stats, error) {
	if j.db == nil {
		return Stats{}, ErrClosed
	}

	var s Stats
	var lastMillis sql.NullInt64
	err := j.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(success), 0), COALESCE(MAX(ts), 0) FROM attempts",
	).Scan(&s.Total, &s.Successes, &lastMillis)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read journal stats: %w", err)
	}
	s.Failures = s.Total - s.Successes
	if lastMillis.Valid && lastMillis.Int64 > 0 {
		s.LastAt = time.UnixMilli(lastMillis.Int64)
	}
	return s, nil
}

// Prune deletes entries older than the retention window.
func (j *Journal) Prune(retention time.Duration) (int64, error) {
	if j.db == nil {
		return 0, ErrClosed
	}
	cutoff := j.now().Add(-retention).UnixMilli()
	res, err := j.db.Exec("DELETE FROM attempts WHERE ts < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Close releases the database. Further calls return ErrClosed.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
