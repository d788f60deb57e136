// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultMaxFileSize is the log size that triggers rotation (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

// Event types emitted by the authentication core.
const (
	EventPINSetup          = "PIN_SETUP"
	EventPINChanged        = "PIN_CHANGED"
	EventPINCleared        = "PIN_CLEARED"
	EventAuthSuccess       = "AUTH_SUCCESS"
	EventAuthFailed        = "AUTH_FAILED"
	EventAuthLocked        = "AUTH_LOCKED"
	EventAuthBlocked       = "AUTH_BLOCKED"
	EventBiometricSuccess  = "BIOMETRIC_SUCCESS"
	EventBiometricFailed   = "BIOMETRIC_FAILED"
	EventBiometricEnabled  = "BIOMETRIC_ENABLED"
	EventBiometricDisabled = "BIOMETRIC_DISABLED"
	EventQuestionsSaved    = "QUESTIONS_SAVED"
	EventQuestionsVerified = "QUESTIONS_VERIFIED"
	EventQuestionsFailed   = "QUESTIONS_FAILED"
	EventLogout            = "LOGOUT"
	EventAutoLock          = "AUTO_LOCK"
)

// =============================================================================
// AUDIT EVENT
// =============================================================================

// Event is a single audit log entry.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// =============================================================================
// LOGGER
// =============================================================================

// Logger appends events to a JSONL file, rotating when the file exceeds
// maxFileSize. A nil *Logger is valid and drops all events, so callers
// can log unconditionally.
type Logger struct {
	mu          sync.Mutex
	path        string
	maxFileSize int64
	enabled     bool
}

// Option configures a Logger.
type Option func(*Logger)

// WithMaxFileSize overrides the rotation threshold.
func WithMaxFileSize(size int64) Option {
	return func(l *Logger) {
		if size > 0 {
			l.maxFileSize = size
		}
	}
}

// WithEnabled toggles logging.
func WithEnabled(enabled bool) Option {
	return func(l *Logger) {
		l.enabled = enabled
	}
}

// NewLogger creates a logger writing to path.
func NewLogger(path string, opts ...Option) *Logger {
	l := &Logger{
		path:        path,
		maxFileSize: DefaultMaxFileSize,
		enabled:     true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// IsEnabled reports whether events are being written.
func (l *Logger) IsEnabled() bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Record logs an event, assigning an ID and timestamp if unset.
// Write failures go to stderr; they never fail the calling operation.
func (l *Logger) Record(e Event) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.enabled {
		return
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	if err := l.appendLocked(e); err != nil {
		fmt.Fprintf(os.Stderr, "audit: failed to log %s: %v\n", e.EventType, err)
	}
}

// appendLocked serializes and appends one event (caller must hold the lock).
func (l *Logger) appendLocked(e Event) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := l.rotateIfNeededLocked(); err != nil {
		return err
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// rotateIfNeededLocked moves the current log aside once it exceeds the size
// threshold. One generation of history is kept.
func (l *Logger) rotateIfNeededLocked() error {
	info, err := os.Stat(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat audit log: %w", err)
	}
	if info.Size() < l.maxFileSize {
		return nil
	}
	if err := os.Rename(l.path, l.path+".1"); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}
	return nil
}
