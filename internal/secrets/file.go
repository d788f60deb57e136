// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/morganforge/ledgerlock/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// fileMagic identifies the encrypted secrets document format.
	fileMagic = "LLSEC1"

	// NonceSize is the AES-GCM nonce size (96 bits).
	NonceSize = 12

	// KeySize is the AES-256 key size.
	KeySize = 32

	// SaltSize is the key-derivation salt size.
	SaltSize = 16

	// DeviceSecretSize is the size of the random device secret.
	DeviceSecretSize = 32

	// PBKDF2Iterations for deriving the file key from the device secret.
	// Matches the OWASP recommendation for PBKDF2-SHA-256 so the store
	// remains costly to attack even if a weak secret is ever substituted.
	PBKDF2Iterations = 600000
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrCorrupted indicates the secrets file failed authentication or parsing.
	ErrCorrupted = errors.New("secrets file corrupted or tampered with")

	// ErrKeyStoreFailed indicates the device secret could not be read or created.
	ErrKeyStoreFailed = errors.New("device key store operation failed")
)

// ZeroBytes overwrites b with zeros. Key material must be zeroed as soon as
// it is no longer needed so it cannot surface in crash dumps.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// =============================================================================
// FILE STORE
// =============================================================================

// FileStore is a Store persisted as a single AES-256-GCM encrypted JSON
// document. The whole document is rewritten atomically on every mutation;
// the data set is a handful of short strings, so this stays cheap and keeps
// crash behavior trivial (old document or new document, never a mix).
//
// File layout: magic(6) | salt(16) | nonce(12) | ciphertext.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	salt   []byte
	aead   cipher.AEAD
	values map[string]string
}

// OpenFileStore opens (or initializes) the encrypted store at path. The
// AES key is derived from the device secret in ks; a fresh secret is
// generated and stored on first use.
func OpenFileStore(path string, ks KeyStore) (*FileStore, error) {
	secret, err := loadOrCreateDeviceSecret(ks)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(secret)

	fs := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	payload, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: no document yet. Derive a key under a fresh salt;
		// the file appears on the first Set.
		fs.salt = make([]byte, SaltSize)
		if _, err := rand.Read(fs.salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		if err := fs.deriveAEAD(secret); err != nil {
			return nil, err
		}
		return fs, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	if len(payload) < len(fileMagic)+SaltSize+NonceSize || string(payload[:len(fileMagic)]) != fileMagic {
		return nil, ErrCorrupted
	}
	payload = payload[len(fileMagic):]
	fs.salt = append([]byte(nil), payload[:SaltSize]...)
	nonce := payload[SaltSize : SaltSize+NonceSize]
	ciphertext := payload[SaltSize+NonceSize:]

	if err := fs.deriveAEAD(secret); err != nil {
		return nil, err
	}

	plaintext, err := fs.aead.Open(nil, nonce, ciphertext, []byte(fileMagic))
	if err != nil {
		return nil, ErrCorrupted
	}
	defer ZeroBytes(plaintext)

	if err := json.Unmarshal(plaintext, &fs.values); err != nil {
		return nil, ErrCorrupted
	}

	return fs, nil
}

// deriveAEAD derives the AES-256-GCM cipher from the device secret and the
// store salt.
func (fs *FileStore) deriveAEAD(secret []byte) error {
	key := pbkdf2.Key(secret, fs.salt, PBKDF2Iterations, KeySize, sha256.New)
	defer ZeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("failed to create AEAD: %w", err)
	}
	fs.aead = aead
	return nil
}

// loadOrCreateDeviceSecret returns the device secret, generating and storing
// a fresh one on first use.
func loadOrCreateDeviceSecret(ks KeyStore) ([]byte, error) {
	if ks.Exists() {
		secret, err := ks.Retrieve()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKeyStoreFailed, err)
		}
		if len(secret) != DeviceSecretSize {
			return nil, fmt.Errorf("%w: unexpected secret length", ErrKeyStoreFailed)
		}
		return secret, nil
	}

	secret := make([]byte, DeviceSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyStoreFailed, err)
	}
	if err := ks.Store(secret); err != nil {
		ZeroBytes(secret)
		return nil, fmt.Errorf("%w: %v", ErrKeyStoreFailed, err)
	}
	return secret, nil
}

// Get returns the value for key, or ErrNotFound.
func (fs *FileStore) Get(key string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	v, ok := fs.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set writes the value for key. The document is persisted before the
// in-memory view changes, so a failed write leaves the store unchanged.
func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	next := fs.copyValues()
	next[key] = value
	if err := fs.persist(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}

// Delete removes the value for key. Deleting a missing key is not an error.
func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.values[key]; !ok {
		return nil
	}
	next := fs.copyValues()
	delete(next, key)
	if err := fs.persist(next); err != nil {
		return err
	}
	fs.values = next
	return nil
}

// Has reports whether a value exists for key.
func (fs *FileStore) Has(key string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, ok := fs.values[key]
	return ok
}

// copyValues snapshots the value map (caller must hold the lock).
func (fs *FileStore) copyValues() map[string]string {
	next := make(map[string]string, len(fs.values))
	for k, v := range fs.values {
		next[k] = v
	}
	return next
}

// persist encrypts and atomically writes the document (caller must hold the
// write lock).
func (fs *FileStore) persist(values map[string]string) error {
	plaintext, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to marshal secrets: %w", err)
	}
	defer ZeroBytes(plaintext)

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := fs.aead.Seal(nil, nonce, plaintext, []byte(fileMagic))

	payload := make([]byte, 0, len(fileMagic)+SaltSize+NonceSize+len(ciphertext))
	payload = append(payload, fileMagic...)
	payload = append(payload, fs.salt...)
	payload = append(payload, nonce...)
	payload = append(payload, ciphertext...)

	if err := util.AtomicWriteFile(fs.path, payload, 0600); err != nil {
		return fmt.Errorf("failed to write secrets file: %w", err)
	}
	return nil
}
