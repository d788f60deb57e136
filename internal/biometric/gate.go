// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package biometric

import (
	"errors"
	"fmt"

	"github.com/morganforge/ledgerlock/internal/secrets"
)

// =============================================================================
// TYPES
// =============================================================================

// Type identifies a biometric factor.
type Type int

const (
	// TypeNone means no usable biometric factor.
	TypeNone Type = iota
	// TypeFingerprint is touch/fingerprint recognition.
	TypeFingerprint
	// TypeFacial is face recognition.
	TypeFacial
)

// String returns a human-readable factor name.
func (t Type) String() string {
	switch t {
	case TypeFingerprint:
		return "fingerprint"
	case TypeFacial:
		return "facial"
	default:
		return "none"
	}
}

// Prompter is the platform biometric primitive. Implementations wrap the OS
// API; Challenge blocks until the user completes or dismisses the prompt and
// returns nil on success. Recognized failures should be wrapped in the
// sentinel errors below; anything else is treated as a generic failure.
type Prompter interface {
	HasHardware() bool
	IsEnrolled() bool
	SupportedTypes() []Type
	Challenge(promptMessage, cancelLabel string, disableDeviceFallback bool) error
}

// =============================================================================
// ERRORS
// =============================================================================

// The closed outcome set for biometric authentication. Platform errors that
// match none of these are mapped to ErrFailed; nothing else ever escapes.
var (
	ErrCancelled    = errors.New("biometric prompt cancelled")
	ErrLockout      = errors.New("biometric locked out by platform")
	ErrNotSupported = errors.New("biometric authentication not supported")
	ErrNotEnabled   = errors.New("biometric authentication not enabled")
	ErrFailed       = errors.New("biometric authentication failed")
)

// DefaultCancelLabel is the cancel button label passed to the platform prompt.
const DefaultCancelLabel = "Use PIN"

// =============================================================================
// GATE
// =============================================================================

// Gate decides whether the biometric path is usable and runs the challenge.
// The enabled flag persists in the secret store independently of hardware
// support, so a stale "enabled" survives until support is re-checked.
type Gate struct {
	prompter Prompter
	store    secrets.Store
}

// NewGate creates a gate over the platform prompter and the secret store.
func NewGate(prompter Prompter, store secrets.Store) *Gate {
	return &Gate{prompter: prompter, store: store}
}

// IsSupported reports whether the platform has biometric hardware AND at
// least one enrolled factor. Unenrolled hardware is just as unusable as no
// hardware.
func (g *Gate) IsSupported() bool {
	return g.prompter.HasHardware() && g.prompter.IsEnrolled()
}

// AvailableType returns the factor to present, preferring facial over
// fingerprint when the platform reports both. TypeNone when unusable.
func (g *Gate) AvailableType() Type {
	if !g.IsSupported() {
		return TypeNone
	}
	available := TypeNone
	for _, t := range g.prompter.SupportedTypes() {
		switch t {
		case TypeFacial:
			return TypeFacial
		case TypeFingerprint:
			available = TypeFingerprint
		}
	}
	return available
}

// IsEnabled reads the persisted preference. A missing or unreadable flag is
// disabled.
func (g *Gate) IsEnabled() bool {
	v, err := g.store.Get(secrets.KeyBiometricEnabled)
	if err != nil {
		return false
	}
	return v == "true"
}

// SetEnabled persists the preference.
func (g *Gate) SetEnabled(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	if err := g.store.Set(secrets.KeyBiometricEnabled, value); err != nil {
		return fmt.Errorf("failed to persist biometric preference: %w", err)
	}
	return nil
}

// Authenticate runs the biometric challenge. NotSupported and NotEnabled
// short-circuit without ever invoking the platform prompt. Device-credential
// fallback is disabled: this path must prove a biometric factor, nothing
// weaker.
func (g *Gate) Authenticate(prompt string) error {
	if !g.IsSupported() {
		return ErrNotSupported
	}
	if !g.IsEnabled() {
		return ErrNotEnabled
	}

	err := g.prompter.Challenge(prompt, DefaultCancelLabel, true)
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrCancelled), errors.Is(err, ErrLockout), errors.Is(err, ErrFailed):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrFailed, err)
	}
}

// =============================================================================
// UNAVAILABLE PROMPTER
// =============================================================================

// Unavailable is a Prompter for platforms without biometric hardware.
// Every gate over it reports unsupported.
type Unavailable struct{}

// HasHardware reports no hardware.
func (Unavailable) HasHardware() bool { return false }

// IsEnrolled reports nothing enrolled.
func (Unavailable) IsEnrolled() bool { return false }

// SupportedTypes reports no factors.
func (Unavailable) SupportedTypes() []Type { return nil }

// Challenge always fails; the gate never reaches it.
func (Unavailable) Challenge(string, string, bool) error { return ErrNotSupported }
