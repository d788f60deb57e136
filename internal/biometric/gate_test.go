// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package biometric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/ledgerlock/internal/secrets"
)

type stubPrompter struct {
	hardware   bool
	enrolled   bool
	types      []Type
	challenge  error
	challenged int
	lastPrompt string
	lastCancel string
	lastNoFall bool
}

func (s *stubPrompter) HasHardware() bool    { return s.hardware }
func (s *stubPrompter) IsEnrolled() bool     { return s.enrolled }
func (s *stubPrompter) SupportedTypes() []Type { return s.types }
func (s *stubPrompter) Challenge(prompt, cancel string, noFallback bool) error {
	s.challenged++
	s.lastPrompt = prompt
	s.lastCancel = cancel
	s.lastNoFall = noFallback
	return s.challenge
}

func TestGateSupportRequiresHardwareAndEnrollment(t *testing.T) {
	tests := []struct {
		name     string
		hardware bool
		enrolled bool
		want     bool
	}{
		{"neither", false, false, false},
		{"hardware only", true, false, false},
		{"enrolled only", false, true, false},
		{"both", true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &stubPrompter{hardware: tt.hardware, enrolled: tt.enrolled}
			g := NewGate(p, secrets.NewMemoryStore())
			assert.Equal(t, tt.want, g.IsSupported())
		})
	}
}

func TestGateAvailableTypePrefersFacial(t *testing.T) {
	store := secrets.NewMemoryStore()

	p := &stubPrompter{hardware: true, enrolled: true, types: []Type{TypeFingerprint, TypeFacial}}
	assert.Equal(t, TypeFacial, NewGate(p, store).AvailableType())

	p = &stubPrompter{hardware: true, enrolled: true, types: []Type{TypeFingerprint}}
	assert.Equal(t, TypeFingerprint, NewGate(p, store).AvailableType())

	p = &stubPrompter{hardware: true, enrolled: true}
	assert.Equal(t, TypeNone, NewGate(p, store).AvailableType())

	p = &stubPrompter{types: []Type{TypeFacial}}
	assert.Equal(t, TypeNone, NewGate(p, store).AvailableType(), "unsupported gate has no type")
}

func TestGateEnabledFlag(t *testing.T) {
	store := secrets.NewMemoryStore()
	g := NewGate(&stubPrompter{}, store)

	assert.False(t, g.IsEnabled(), "missing flag reads as disabled")

	require.NoError(t, g.SetEnabled(true))
	assert.True(t, g.IsEnabled())
	v, _ := store.Get(secrets.KeyBiometricEnabled)
	assert.Equal(t, "true", v)

	require.NoError(t, g.SetEnabled(false))
	assert.False(t, g.IsEnabled())

	// Garbage in the store reads as disabled, never as enabled.
	require.NoError(t, store.Set(secrets.KeyBiometricEnabled, "yes"))
	assert.False(t, g.IsEnabled())
}

func TestGateSetEnabledWriteFailure(t *testing.T) {
	store := secrets.NewMemoryStore()
	store.FailWrites = true
	g := NewGate(&stubPrompter{}, store)
	assert.Error(t, g.SetEnabled(true))
}

func TestGateAuthenticateShortCircuits(t *testing.T) {
	store := secrets.NewMemoryStore()

	p := &stubPrompter{}
	g := NewGate(p, store)
	assert.ErrorIs(t, g.Authenticate("Unlock"), ErrNotSupported)
	assert.Zero(t, p.challenged, "unsupported must not reach the prompt")

	p = &stubPrompter{hardware: true, enrolled: true}
	g = NewGate(p, store)
	assert.ErrorIs(t, g.Authenticate("Unlock"), ErrNotEnabled)
	assert.Zero(t, p.challenged, "disabled must not reach the prompt")
}

func TestGateAuthenticateSuccess(t *testing.T) {
	store := secrets.NewMemoryStore()
	p := &stubPrompter{hardware: true, enrolled: true}
	g := NewGate(p, store)
	require.NoError(t, g.SetEnabled(true))

	require.NoError(t, g.Authenticate("Unlock your ledger"))
	assert.Equal(t, 1, p.challenged)
	assert.Equal(t, "Unlock your ledger", p.lastPrompt)
	assert.Equal(t, DefaultCancelLabel, p.lastCancel)
	assert.True(t, p.lastNoFall, "device-credential fallback must stay disabled")
}

func TestGateAuthenticateErrorMapping(t *testing.T) {
	store := secrets.NewMemoryStore()
	p := &stubPrompter{hardware: true, enrolled: true}
	g := NewGate(p, store)
	require.NoError(t, g.SetEnabled(true))

	for _, sentinel := range []error{ErrCancelled, ErrLockout, ErrFailed} {
		p.challenge = sentinel
		assert.ErrorIs(t, g.Authenticate("Unlock"), sentinel)
	}

	// Unknown platform errors collapse into ErrFailed.
	p.challenge = errors.New("sensor offline")
	err := g.Authenticate("Unlock")
	assert.ErrorIs(t, err, ErrFailed)
	assert.Contains(t, err.Error(), "sensor offline")
}

func TestUnavailablePrompter(t *testing.T) {
	g := NewGate(Unavailable{}, secrets.NewMemoryStore())
	assert.False(t, g.IsSupported())
	assert.Equal(t, TypeNone, g.AvailableType())
	assert.ErrorIs(t, g.Authenticate("Unlock"), ErrNotSupported)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "none", TypeNone.String())
	assert.Equal(t, "fingerprint", TypeFingerprint.String())
	assert.Equal(t, "facial", TypeFacial.String())
	assert.Equal(t, "none", Type(99).String())
}
