// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secrets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/morganforge/ledgerlock/internal/util"
)

// =============================================================================
// KEYSTORE INTERFACE
// =============================================================================

// KeyStore holds the device secret that the FileStore encryption key is
// derived from. Implementations are platform specific:
//   - Windows: DPAPI-wrapped file (key usable only by the logged-in user)
//   - Unix: file with 0600 permissions
type KeyStore interface {
	// Store securely stores the device secret.
	Store(key []byte) error
	// Retrieve retrieves the device secret.
	Retrieve() ([]byte, error)
	// Delete removes the device secret.
	Delete() error
	// Exists checks whether a device secret is stored.
	Exists() bool
}

// =============================================================================
// FILE-BASED KEYSTORE
// =============================================================================

// FileKeyStore stores the device secret in a plain file with restricted
// permissions. It is the Unix implementation and the portable fallback.
type FileKeyStore struct {
	path string
}

// NewFileKeyStore creates a key store rooted at path.
func NewFileKeyStore(path string) *FileKeyStore {
	return &FileKeyStore{path: path}
}

// Store saves the secret with 0600 permissions, atomically.
func (f *FileKeyStore) Store(key []byte) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := util.AtomicWriteFile(f.path, key, 0600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	return nil
}

// Retrieve reads the secret back.
func (f *FileKeyStore) Retrieve() ([]byte, error) {
	key, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	return key, nil
}

// Delete removes the secret file. A missing file is not an error.
func (f *FileKeyStore) Delete() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete key file: %w", err)
	}
	return nil
}

// Exists checks whether the secret file exists.
func (f *FileKeyStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// defaultKeyStorePath returns the default location for the device secret.
func defaultKeyStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".ledgerlock", "device.key")
	}
	return filepath.Join(home, ".ledgerlock", "device.key")
}
