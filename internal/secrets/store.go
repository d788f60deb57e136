// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secrets

import (
	"errors"
	"sync"
)

// =============================================================================
// WELL-KNOWN KEYS
// =============================================================================

// Keys used by the authentication core. All values are strings; none of them
// may ever appear in logs or error messages.
const (
	// KeyPINHash holds the hex SHA-256 digest of pin+salt.
	KeyPINHash = "pin_hash"

	// KeyPINSalt holds the hex-encoded 16-byte random salt.
	KeyPINSalt = "pin_salt"

	// KeyBiometricEnabled holds "true" or "false".
	KeyBiometricEnabled = "biometric_enabled"

	// KeySecurityQuestions holds a JSON array of {question, answerHash}.
	KeySecurityQuestions = "security_questions"

	// KeyLastActive holds the last-active timestamp as epoch millis.
	KeyLastActive = "last_active"

	// KeySettings holds an opaque settings blob owned by the app shell.
	KeySettings = "settings"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("secret not found")

// Store is a durable key/value store for confidential strings.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)
	// Set writes the value for key, replacing any existing value.
	Set(key, value string) error
	// Delete removes the value for key. Deleting a missing key is not an error.
	Delete(key string) error
	// Has reports whether a value exists for key.
	Has(key string) bool
}

// =============================================================================
// IN-MEMORY STORE
// =============================================================================

// MemoryStore is a Store backed by a process-local map. It exists for tests
// and never persists anything.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string

	// FailWrites makes Set and Delete fail, for exercising store I/O
	// error paths in tests.
	FailWrites bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// ErrWriteFailed is returned by MemoryStore when FailWrites is set.
var ErrWriteFailed = errors.New("secret store write failed")

// Get returns the value for key, or ErrNotFound.
func (m *MemoryStore) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set writes the value for key.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	m.values[key] = value
	return nil
}

// Delete removes the value for key.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	delete(m.values, key)
	return nil
}

// Has reports whether a value exists for key.
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[key]
	return ok
}
