// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/morganforge/ledgerlock/internal/secrets"
)

// SaltSize is the size of the random credential salt in bytes.
const SaltSize = 16

// =============================================================================
// TYPES
// =============================================================================

// SecurityQuestion pairs a recovery question with its plaintext answer.
// Only the question text and the answer hash are ever persisted.
type SecurityQuestion struct {
	Question string
	Answer   string
}

// storedQuestion is the persisted form of a security question.
type storedQuestion struct {
	Question   string `json:"question"`
	AnswerHash string `json:"answerHash"`
}

// =============================================================================
// CREDENTIAL SERVICE
// =============================================================================

// CredentialService owns the PIN credential (salt + hash) and the security
// question set in the secret store. Writes are serialized against reads so a
// verify can never observe a half-written salt/hash pair.
type CredentialService struct {
	mu    sync.RWMutex
	store secrets.Store
}

// NewCredentialService creates a service over the given secret store.
func NewCredentialService(store secrets.Store) *CredentialService {
	return &CredentialService{store: store}
}

// IsSet reports whether a PIN credential exists. The hash is the marker: an
// orphan salt left by an interrupted setup does not count as a credential.
func (c *CredentialService) IsSet() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Has(secrets.KeyPINHash)
}

// Setup creates a fresh credential for pin, replacing any existing one.
// The salt is written before the hash; if the hash write fails the fresh
// salt is removed best-effort and the operation fails. A crash between the
// two writes can leave an orphan salt, which IsSet ignores and the next
// Setup overwrites.
//
// Replacing the salt invalidates any stored security question set (its
// answer hashes used the old salt), so the set is deleted here.
func (c *CredentialService) Setup(pin string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setupLocked(pin)
}

func (c *CredentialService) setupLocked(pin string) error {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("%w: salt generation: %v", ErrSetupFailed, err)
	}
	saltHex := hex.EncodeToString(salt)

	if err := c.store.Set(secrets.KeyPINSalt, saltHex); err != nil {
		return fmt.Errorf("%w: salt write: %v", ErrSetupFailed, err)
	}
	if err := c.store.Set(secrets.KeyPINHash, hashWithSalt(pin, saltHex)); err != nil {
		// Known non-atomic window: the salt write already committed. Roll it
		// back best-effort so no partial credential stays observable.
		_ = c.store.Delete(secrets.KeyPINSalt)
		return fmt.Errorf("%w: hash write: %v", ErrSetupFailed, err)
	}

	// Old answer hashes are unverifiable under the new salt.
	_ = c.store.Delete(secrets.KeySecurityQuestions)

	c.markFirstLaunchCompleteLocked()
	return nil
}

// Verify reports whether pin matches the stored credential. A missing
// credential presents as false, same as a wrong PIN; callers distinguish the
// two via IsSet. Store read failures also present as false — never as
// authenticated.
func (c *CredentialService) Verify(pin string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.verifyLocked(pin)
}

func (c *CredentialService) verifyLocked(pin string) bool {
	saltHex, err := c.store.Get(secrets.KeyPINSalt)
	if err != nil {
		return false
	}
	stored, err := c.store.Get(secrets.KeyPINHash)
	if err != nil {
		return false
	}
	computed := hashWithSalt(pin, saltHex)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1
}

// Change replaces the credential after verifying the current PIN.
// Returns ErrWrongCurrentPIN if currentPin does not verify.
func (c *CredentialService) Change(currentPin, newPin string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.verifyLocked(currentPin) {
		return ErrWrongCurrentPIN
	}
	return c.setupLocked(newPin)
}

// Reset unconditionally deletes the existing credential and creates a new
// one. Identity proof is the caller's responsibility (e.g., a verified
// security-question gate in the forgot-PIN flow).
func (c *CredentialService) Reset(newPin string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Delete(secrets.KeyPINHash); err != nil {
		return fmt.Errorf("%w: hash delete: %v", ErrSetupFailed, err)
	}
	if err := c.store.Delete(secrets.KeyPINSalt); err != nil {
		return fmt.Errorf("%w: salt delete: %v", ErrSetupFailed, err)
	}
	return c.setupLocked(newPin)
}

// Clear deletes the credential and the security question set. After Clear,
// IsSet is false and every Verify returns false.
func (c *CredentialService) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for _, key := range []string{secrets.KeyPINHash, secrets.KeyPINSalt, secrets.KeySecurityQuestions} {
		if err := c.store.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// =============================================================================
// SECURITY QUESTIONS
// =============================================================================

// SaveQuestions persists the recovery question set, hashing each answer with
// the credential salt. Fails with ErrNoCredential when no PIN is set: the
// answer hashes reuse the credential salt, so a question set cannot exist
// without one.
func (c *CredentialService) SaveQuestions(questions []SecurityQuestion) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(questions) == 0 {
		return errors.New("no security questions supplied")
	}

	saltHex, err := c.store.Get(secrets.KeyPINSalt)
	if err != nil {
		return ErrNoCredential
	}
	if !c.store.Has(secrets.KeyPINHash) {
		return ErrNoCredential
	}

	stored := make([]storedQuestion, len(questions))
	for i, q := range questions {
		stored[i] = storedQuestion{
			Question:   q.Question,
			AnswerHash: hashWithSalt(normalizeAnswer(q.Answer), saltHex),
		}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	if err := c.store.Set(secrets.KeySecurityQuestions, string(data)); err != nil {
		return fmt.Errorf("failed to persist questions: %w", err)
	}
	return nil
}

// Questions returns the stored question texts, in order, for prompting.
func (c *CredentialService) Questions() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, err := c.loadQuestionsLocked()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(stored))
	for i, q := range stored {
		out[i] = q.Question
	}
	return out, nil
}

// VerifyAnswers checks the supplied answers positionally against the stored
// set. False on any length mismatch, on any single mismatch, and whenever
// the credential (and therefore the salt) is gone — never an error or panic.
func (c *CredentialService) VerifyAnswers(answers []string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	saltHex, err := c.store.Get(secrets.KeyPINSalt)
	if err != nil {
		return false
	}
	stored, err := c.loadQuestionsLocked()
	if err != nil || len(stored) == 0 {
		return false
	}
	if len(answers) != len(stored) {
		return false
	}

	for i, q := range stored {
		computed := hashWithSalt(normalizeAnswer(answers[i]), saltHex)
		if subtle.ConstantTimeCompare([]byte(computed), []byte(q.AnswerHash)) != 1 {
			return false
		}
	}
	return true
}

// HasQuestions reports whether a question set is stored.
func (c *CredentialService) HasQuestions() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Has(secrets.KeySecurityQuestions)
}

// loadQuestionsLocked parses the stored question set (caller holds a lock).
func (c *CredentialService) loadQuestionsLocked() ([]storedQuestion, error) {
	data, err := c.store.Get(secrets.KeySecurityQuestions)
	if err != nil {
		return nil, err
	}
	var stored []storedQuestion
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("stored questions corrupted: %w", err)
	}
	return stored, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// hashWithSalt computes the hex SHA-256 digest of the UTF-8 string
// concatenation value+saltHex. The string (not byte) concatenation with the
// hex-encoded salt is the persisted format; changing it orphans every stored
// hash.
func hashWithSalt(value, saltHex string) string {
	sum := sha256.Sum256([]byte(value + saltHex))
	return hex.EncodeToString(sum[:])
}

// normalizeAnswer canonicalizes a security answer before hashing: Unicode
// NFKC, trimmed, lower-cased. Answers typed on different keyboards must hash
// identically.
func normalizeAnswer(answer string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(answer)))
}

// markFirstLaunchCompleteLocked flips the first-launch flag inside the
// settings blob. Best-effort side effect of a successful setup; failures are
// ignored because the credential itself is already committed.
func (c *CredentialService) markFirstLaunchCompleteLocked() {
	settings := make(map[string]any)
	if data, err := c.store.Get(secrets.KeySettings); err == nil {
		_ = json.Unmarshal([]byte(data), &settings)
	}
	settings["firstLaunchDone"] = true
	if data, err := json.Marshal(settings); err == nil {
		_ = c.store.Set(secrets.KeySettings, string(data))
	}
}
