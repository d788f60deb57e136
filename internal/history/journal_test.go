// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "attempts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)

	require.NoError(t, j.Record("pin", false, "wrong_pin"))
	require.NoError(t, j.Record("pin", true, ""))
	require.NoError(t, j.Record("biometric", true, ""))

	attempts, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, attempts, 3)

	// Newest first.
	assert.Equal(t, "biometric", attempts[0].Method)
	assert.True(t, attempts[0].Success)
	assert.Equal(t, "pin", attempts[2].Method)
	assert.False(t, attempts[2].Success)
	assert.Equal(t, "wrong_pin", attempts[2].Reason)
}

func TestJournalRecentLimit(t *testing.T) {
	j := openTestJournal(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, j.Record("pin", false, "wrong_pin"))
	}

	attempts, err := j.Recent(3)
	require.NoError(t, err)
	assert.Len(t, attempts, 3)

	// Non-positive limit falls back to the default.
	attempts, err = j.Recent(0)
	require.NoError(t, err)
	assert.Len(t, attempts, 5)
}

func TestJournalStats(t *testing.T) {
	j := openTestJournal(t)

	s, err := j.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, s.Total)
	assert.True(t, s.LastAt.IsZero())

	require.NoError(t, j.Record("pin", false, "wrong_pin"))
	require.NoError(t, j.Record("pin", false, "wrong_pin"))
	require.NoError(t, j.Record("pin", true, ""))

	s, err = j.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Successes)
	assert.Equal(t, 2, s.Failures)
	assert.False(t, s.LastAt.IsZero())
}

func TestJournalPrune(t *testing.T) {
	j := openTestJournal(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return base }
	require.NoError(t, j.Record("pin", true, ""))

	j.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, j.Record("pin", true, ""))

	pruned, err := j.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	attempts, err := j.Recent(10)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestJournalPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attempts.db")

	j, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Record("pin", true, ""))
	require.NoError(t, j.Close())

	j, err = Open(path)
	require.NoError(t, err)
	defer j.Close()

	attempts, err := j.Recent(10)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestJournalClosed(t *testing.T) {
	j := openTestJournal(t)
	require.NoError(t, j.Close())

	assert.ErrorIs(t, j.Record("pin", true, ""), ErrClosed)
	_, err := j.Recent(10)
	assert.ErrorIs(t, err, ErrClosed)
	_, err = j.Stats()
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, j.Close(), "double close is a no-op")
}
