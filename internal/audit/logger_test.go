// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewLogger(path)

	l.Record(Event{EventType: EventAuthFailed, Success: false, Error: "wrong pin"})
	l.Record(Event{EventType: EventAuthSuccess, Success: true})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Event
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		events = append(events, e)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, events, 2)
	require.Equal(t, EventAuthFailed, events[0].EventType)
	require.Equal(t, EventAuthSuccess, events[1].EventType)
	require.NotEmpty(t, events[0].ID)
	require.NotEqual(t, events[0].ID, events[1].ID)
	require.False(t, events[0].Timestamp.IsZero())
}

func TestNilLoggerDropsEvents(t *testing.T) {
	var l *Logger
	require.False(t, l.IsEnabled())
	l.Record(Event{EventType: EventAuthSuccess}) // must not panic
}

func TestDisabledLoggerWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewLogger(path, WithEnabled(false))
	l.Record(Event{EventType: EventAuthSuccess})

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewLogger(path, WithMaxFileSize(64))

	for i := 0; i < 10; i++ {
		l.Record(Event{EventType: EventAuthFailed})
	}

	_, err := os.Stat(path + ".1")
	require.NoError(t, err, "expected rotated log generation")
}
