// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/ledgerlock/internal/secrets"
)

// flakyStore wraps a MemoryStore and fails the Nth write, for exercising
// partial-write recovery.
type flakyStore struct {
	*secrets.MemoryStore
	writesLeft int
}

func (f *flakyStore) Set(key, value string) error {
	if f.writesLeft <= 0 {
		return secrets.ErrWriteFailed
	}
	f.writesLeft--
	return f.MemoryStore.Set(key, value)
}

func TestCredentialSetupAndVerify(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)

	assert.False(t, svc.IsSet())
	assert.False(t, svc.Verify("2580"), "verify before setup must fail")

	require.NoError(t, svc.Setup("2580"))
	assert.True(t, svc.IsSet())
	assert.True(t, svc.Verify("2580"))
	assert.False(t, svc.Verify("2581"))
	assert.False(t, svc.Verify(""))

	// Only hash and salt are persisted, never the PIN itself.
	salt, err := store.Get(secrets.KeyPINSalt)
	require.NoError(t, err)
	assert.Len(t, salt, SaltSize*2, "salt stored hex-encoded")
	hash, err := store.Get(secrets.KeyPINHash)
	require.NoError(t, err)
	assert.Len(t, hash, 64)
	assert.NotContains(t, hash, "2580")
}

func TestCredentialSetupFreshSaltEachTime(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)

	require.NoError(t, svc.Setup("2580"))
	salt1, _ := store.Get(secrets.KeyPINSalt)
	hash1, _ := store.Get(secrets.KeyPINHash)

	require.NoError(t, svc.Setup("2580"))
	salt2, _ := store.Get(secrets.KeyPINSalt)
	hash2, _ := store.Get(secrets.KeyPINHash)

	assert.NotEqual(t, salt1, salt2, "each setup must draw a fresh salt")
	assert.NotEqual(t, hash1, hash2, "same PIN, different salt, different hash")
	assert.True(t, svc.Verify("2580"))
}

func TestCredentialChange(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))

	err := svc.Change("9999", "1357")
	assert.ErrorIs(t, err, ErrWrongCurrentPIN)
	assert.True(t, svc.Verify("2580"), "failed change must leave the old PIN working")

	require.NoError(t, svc.Change("2580", "1357"))
	assert.True(t, svc.Verify("1357"))
	assert.False(t, svc.Verify("2580"))
}

func TestCredentialReset(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))

	require.NoError(t, svc.Reset("1357"))
	assert.True(t, svc.Verify("1357"))
	assert.False(t, svc.Verify("2580"))
}

func TestCredentialClear(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))
	require.NoError(t, svc.SaveQuestions([]SecurityQuestion{
		{Question: "First pet?", Answer: "Rex"},
	}))

	require.NoError(t, svc.Clear())
	assert.False(t, svc.IsSet())
	assert.False(t, svc.Verify("2580"))
	assert.False(t, svc.HasQuestions())
	assert.False(t, store.Has(secrets.KeyPINSalt))
}

func TestCredentialSetupWriteFailure(t *testing.T) {
	store := secrets.NewMemoryStore()
	store.FailWrites = true
	svc := NewCredentialService(store)

	err := svc.Setup("2580")
	assert.ErrorIs(t, err, ErrSetupFailed)
	assert.False(t, svc.IsSet())
}

func TestCredentialSetupHashWriteFailureRollsBackSalt(t *testing.T) {
	store := &flakyStore{MemoryStore: secrets.NewMemoryStore(), writesLeft: 1}
	svc := NewCredentialService(store)

	err := svc.Setup("2580")
	assert.ErrorIs(t, err, ErrSetupFailed)
	assert.False(t, store.Has(secrets.KeyPINSalt), "orphan salt must be rolled back")
	assert.False(t, svc.IsSet())
}

func TestCredentialSetupInvalidatesQuestions(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))
	require.NoError(t, svc.SaveQuestions([]SecurityQuestion{
		{Question: "First pet?", Answer: "Rex"},
	}))
	require.True(t, svc.HasQuestions())

	// A new salt orphans the old answer hashes, so the set goes with it.
	require.NoError(t, svc.Setup("1357"))
	assert.False(t, svc.HasQuestions())
}

func TestSecurityQuestionsRoundTrip(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))

	questions := []SecurityQuestion{
		{Question: "First pet?", Answer: "Rex"},
		{Question: "Birth city?", Answer: "Lisbon"},
	}
	require.NoError(t, svc.SaveQuestions(questions))

	got, err := svc.Questions()
	require.NoError(t, err)
	assert.Equal(t, []string{"First pet?", "Birth city?"}, got)

	assert.True(t, svc.VerifyAnswers([]string{"Rex", "Lisbon"}))
	assert.False(t, svc.VerifyAnswers([]string{"Rex", "Porto"}))
	assert.False(t, svc.VerifyAnswers([]string{"Lisbon", "Rex"}), "answers are positional")

	// Plaintext answers must never be persisted.
	raw, err := store.Get(secrets.KeySecurityQuestions)
	require.NoError(t, err)
	assert.NotContains(t, raw, "Rex")
	assert.NotContains(t, raw, "Lisbon")
}

func TestSecurityAnswersNormalized(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))
	require.NoError(t, svc.SaveQuestions([]SecurityQuestion{
		{Question: "First pet?", Answer: "  Rex  "},
	}))

	assert.True(t, svc.VerifyAnswers([]string{"rex"}))
	assert.True(t, svc.VerifyAnswers([]string{"REX "}))
	assert.False(t, svc.VerifyAnswers([]string{"rexx"}))
}

func TestSecurityAnswersLengthMismatch(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))
	require.NoError(t, svc.SaveQuestions([]SecurityQuestion{
		{Question: "First pet?", Answer: "Rex"},
		{Question: "Birth city?", Answer: "Lisbon"},
	}))

	assert.False(t, svc.VerifyAnswers([]string{"Rex"}))
	assert.False(t, svc.VerifyAnswers([]string{"Rex", "Lisbon", "extra"}))
	assert.False(t, svc.VerifyAnswers(nil))
}

func TestSecurityQuestionsRequireCredential(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)

	err := svc.SaveQuestions([]SecurityQuestion{
		{Question: "First pet?", Answer: "Rex"},
	})
	assert.ErrorIs(t, err, ErrNoCredential)

	assert.False(t, svc.VerifyAnswers([]string{"Rex"}))
	assert.False(t, svc.HasQuestions())
}

func TestSecurityQuestionsRejectEmptySet(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))

	assert.Error(t, svc.SaveQuestions(nil))
	assert.Error(t, svc.SaveQuestions([]SecurityQuestion{}))
}

func TestSetupMarksFirstLaunchComplete(t *testing.T) {
	store := secrets.NewMemoryStore()
	svc := NewCredentialService(store)
	require.NoError(t, svc.Setup("2580"))

	settings, err := store.Get(secrets.KeySettings)
	require.NoError(t, err)
	assert.Contains(t, settings, `"firstLaunchDone":true`)
}
