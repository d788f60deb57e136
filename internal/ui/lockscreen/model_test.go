// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package lockscreen

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/ledgerlock/internal/auth"
	"github.com/morganforge/ledgerlock/internal/biometric"
	"github.com/morganforge/ledgerlock/internal/secrets"
)

func newTestModel(t *testing.T) (Model, *auth.Controller) {
	t.Helper()
	store := secrets.NewMemoryStore()
	creds := auth.NewCredentialService(store)
	limiter := auth.NewRateLimiter()
	gate := biometric.NewGate(biometric.Unavailable{}, store)
	ctrl := auth.NewController(creds, limiter, gate)
	return New(ctrl, nil), ctrl
}

// submit types a PIN into the model and presses enter.
func submit(m Model, pin string) Model {
	m.input.SetValue(pin)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestStartsInSetupWithoutCredential(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, modeSetup, m.mode)
	assert.False(t, m.Unlocked())
}

func TestStartsInUnlockWithCredential(t *testing.T) {
	m, ctrl := newTestModel(t)
	require.NoError(t, ctrl.SetupPIN("2580", "2580"))
	m = New(ctrl, nil)
	assert.Equal(t, modeUnlock, m.mode)
}

func TestSetupFlow(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = submit(m, "2580")
	assert.Equal(t, modeConfirm, m.mode)

	m = submit(m, "2580")
	assert.Equal(t, modeDone, m.mode)
	assert.True(t, m.Unlocked())
	assert.True(t, ctrl.IsPINSet())
}

func TestSetupRejectsWeakPIN(t *testing.T) {
	m, _ := newTestModel(t)

	m = submit(m, "1234")
	assert.Equal(t, modeSetup, m.mode)
	assert.NotEmpty(t, m.errText)
}

func TestSetupMismatchStartsOver(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = submit(m, "2580")
	m = submit(m, "2581")
	assert.Equal(t, modeSetup, m.mode)
	assert.NotEmpty(t, m.errText)
	assert.False(t, ctrl.IsPINSet())
}

func TestUnlockWrongPINShowsRemaining(t *testing.T) {
	m, ctrl := newTestModel(t)
	require.NoError(t, ctrl.SetupPIN("2580", "2580"))
	m = New(ctrl, nil)

	m = submit(m, "9999")
	assert.Equal(t, modeUnlock, m.mode)
	assert.Contains(t, m.errText, "4 attempt(s)")
}

func TestUnlockSuccess(t *testing.T) {
	m, ctrl := newTestModel(t)
	require.NoError(t, ctrl.SetupPIN("2580", "2580"))
	m = New(ctrl, nil)

	m = submit(m, "2580")
	assert.True(t, m.Unlocked())
}

func TestLockoutEntersCountdown(t *testing.T) {
	m, ctrl := newTestModel(t)
	require.NoError(t, ctrl.SetupPIN("2580", "2580"))
	m = New(ctrl, nil)

	for i := 0; i < auth.DefaultMaxFailedAttempts; i++ {
		m = submit(m, "9999")
	}
	assert.Equal(t, modeLocked, m.mode)
	assert.Greater(t, m.remaining, time.Duration(0))

	// Still locked: the tick keeps the countdown running.
	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(Model)
	assert.Equal(t, modeLocked, m.mode)
	assert.NotNil(t, cmd)
}

func TestEscQuits(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestFormatCountdownRoundsUp(t *testing.T) {
	assert.Equal(t, "30s", formatCountdown(30*time.Second))
	assert.Equal(t, "1s", formatCountdown(200*time.Millisecond))
	assert.Equal(t, "1s", formatCountdown(0))
	assert.Equal(t, "3s", formatCountdown(2100*time.Millisecond))
}
