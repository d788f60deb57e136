// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package lockscreen provides the full-screen lock UI for ledgerlock.
package lockscreen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/ledgerlock/internal/auth"
	"github.com/morganforge/ledgerlock/internal/session"
)

// =============================================================================
// MODES
// =============================================================================

// mode is the current screen of the lock flow.
type mode int

const (
	modeSetup   mode = iota // First run: choose a PIN
	modeConfirm             // First run: confirm the PIN
	modeUnlock              // Normal: enter the PIN
	modeLocked              // Lockout countdown
	modeDone                // Unlocked; quitting
)

// =============================================================================
// STYLES
// =============================================================================

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 3)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	lockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// =============================================================================
// MODEL
// =============================================================================

// tickMsg drives the lockout countdown, one per second.
type tickMsg time.Time

// Model is the Bubble Tea model for the lock screen.
type Model struct {
	controller *auth.Controller
	policy     *session.Policy

	mode  mode
	input textinput.Model

	// Setup state
	firstPIN string

	// Feedback
	errText   string
	remaining time.Duration

	width  int
	height int
}

// New creates the lock screen model. The starting mode depends on whether a
// credential exists.
func New(controller *auth.Controller, policy *session.Policy) Model {
	input := textinput.New()
	input.Placeholder = "PIN"
	input.EchoMode = textinput.EchoPassword
	input.EchoCharacter = '•'
	input.CharLimit = 12
	input.Width = 20
	input.Focus()

	m := Model{
		controller: controller,
		policy:     policy,
		mode:       modeUnlock,
		input:      input,
	}
	if !controller.IsPINSet() {
		m.mode = modeSetup
	}
	return m
}

// Unlocked reports whether the flow ended with an authenticated session.
func (m Model) Unlocked() bool {
	return m.mode == modeDone
}

// Init starts the input blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// tick schedules the next countdown update.
func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.handleSubmit()
		}

	case tickMsg:
		if m.mode != modeLocked {
			return m, nil
		}
		locked, remaining := m.controller.LockStatus()
		if !locked {
			m.mode = modeUnlock
			m.remaining = 0
			m.errText = ""
			m.input.Focus()
			return m, textinput.Blink
		}
		m.remaining = remaining
		return m, tick()
	}

	if m.mode == modeLocked {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit processes the entered PIN for the current mode.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.input.Reset()

	switch m.mode {
	case modeSetup:
		if err := auth.ValidatePIN(value, auth.MinPINLength, auth.MaxPINLength); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.firstPIN = value
		m.errText = ""
		m.mode = modeConfirm
		return m, nil

	case modeConfirm:
		if err := m.controller.SetupPIN(m.firstPIN, value); err != nil {
			// Start over; the mismatch may be in either entry.
			m.firstPIN = ""
			m.mode = modeSetup
			m.errText = err.Error()
			return m, nil
		}
		m.firstPIN = ""
		if m.policy != nil {
			_ = m.policy.Touch()
		}
		m.mode = modeDone
		return m, tea.Quit

	case modeUnlock:
		res := m.controller.Authenticate(value)
		switch {
		case res.Authenticated:
			if m.policy != nil {
				_ = m.policy.Touch()
			}
			m.mode = modeDone
			return m, tea.Quit
		case res.Locked:
			m.mode = modeLocked
			m.remaining = res.RemainingLock
			m.errText = ""
			m.input.Blur()
			return m, tick()
		default:
			left := m.controller.MaxAttempts() - res.FailedAttempts
			m.errText = fmt.Sprintf("Wrong PIN. %d attempt(s) before lockout.", left)
			return m, nil
		}
	}
	return m, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the current screen.
func (m Model) View() string {
	var b strings.Builder

	switch m.mode {
	case modeSetup:
		b.WriteString(titleStyle.Render("Welcome to ledgerlock"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Choose a PIN (%d-%d digits).\n\n", auth.MinPINLength, auth.MaxPINLength))
		b.WriteString(m.input.View())

	case modeConfirm:
		b.WriteString(titleStyle.Render("Confirm your PIN"))
		b.WriteString("\n\n")
		b.WriteString(m.input.View())

	case modeUnlock:
		b.WriteString(titleStyle.Render("ledgerlock"))
		b.WriteString("\n\n")
		b.WriteString("Enter your PIN to unlock.\n\n")
		b.WriteString(m.input.View())

	case modeLocked:
		b.WriteString(titleStyle.Render("ledgerlock"))
		b.WriteString("\n\n")
		b.WriteString(lockedStyle.Render("Too many failed attempts."))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Try again in %s.", formatCountdown(m.remaining)))

	case modeDone:
		b.WriteString(okStyle.Render("Unlocked."))
	}

	if m.errText != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render(m.errText))
	}
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("esc to quit"))

	box := boxStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

// formatCountdown renders the lockout countdown, rounding up so the display
// never shows 0 while still locked.
func formatCountdown(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%ds", secs)
}
