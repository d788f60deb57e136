// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/morganforge/ledgerlock/internal/audit"
	"github.com/morganforge/ledgerlock/internal/biometric"
)

// =============================================================================
// TYPES
// =============================================================================

// State is the controller's authentication state.
type State int

const (
	// StateUnauthenticated is the initial state on every process start;
	// there is no "remember me" across restarts.
	StateUnauthenticated State = iota
	// StateAuthenticated is entered only through a verified PIN or a
	// successful biometric challenge.
	StateAuthenticated
)

// Authentication method labels for the attempt journal.
const (
	MethodPIN       = "pin"
	MethodBiometric = "biometric"
)

// Result is the outcome of a PIN authentication attempt.
type Result struct {
	// Authenticated is true when the attempt succeeded.
	Authenticated bool
	// Locked is true when the limiter is (now) rejecting attempts. It can
	// be true on the attempt that triggered the lockout as well as on
	// attempts rejected without being counted.
	Locked bool
	// RemainingLock is the time left in the lock window; 0 when open.
	RemainingLock time.Duration
	// FailedAttempts is the consecutive failure count after this attempt.
	FailedAttempts int
}

// AttemptSink receives authentication outcomes for local history. Sinks are
// observational; their failures never affect the decision.
type AttemptSink interface {
	Record(method string, success bool, reason string) error
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the single authentication decision surface consumed by the
// UI shell. It owns the Unauthenticated/Authenticated state and coordinates
// the credential service, the rate limiter and the biometric gate.
type Controller struct {
	mu sync.Mutex

	creds   *CredentialService
	limiter *RateLimiter
	gate    *biometric.Gate

	auditLog *audit.Logger
	sink     AttemptSink

	minPINLen int
	maxPINLen int

	state State
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithAuditLogger attaches an audit logger.
func WithAuditLogger(l *audit.Logger) ControllerOption {
	return func(c *Controller) { c.auditLog = l }
}

// WithAttemptSink attaches an attempt journal.
func WithAttemptSink(s AttemptSink) ControllerOption {
	return func(c *Controller) { c.sink = s }
}

// WithPINLengthBounds overrides the PIN length window.
func WithPINLengthBounds(min, max int) ControllerOption {
	return func(c *Controller) {
		if min > 0 && max >= min {
			c.minPINLen = min
			c.maxPINLen = max
		}
	}
}

// NewController creates a controller in StateUnauthenticated.
func NewController(creds *CredentialService, limiter *RateLimiter, gate *biometric.Gate, opts ...ControllerOption) *Controller {
	c := &Controller{
		creds:     creds,
		limiter:   limiter,
		gate:      gate,
		minPINLen: MinPINLength,
		maxPINLen: MaxPINLength,
		state:     StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current authentication state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsAuthenticated reports whether the session is unlocked.
func (c *Controller) IsAuthenticated() bool {
	return c.State() == StateAuthenticated
}

// IsPINSet reports whether a credential exists. Callers use this to route
// between the setup flow and the unlock flow; Verify alone cannot tell
// "not configured" from "wrong PIN".
func (c *Controller) IsPINSet() bool {
	return c.creds.IsSet()
}

// =============================================================================
// PIN LIFECYCLE
// =============================================================================

// SetupPIN validates and creates the initial credential. pin and confirm
// must match and satisfy the format rules.
func (c *Controller) SetupPIN(pin, confirm string) error {
	if err := ValidatePIN(pin, c.minPINLen, c.maxPINLen); err != nil {
		return err
	}
	if pin != confirm {
		return ErrPINMismatch
	}
	if err := c.creds.Setup(pin); err != nil {
		c.audit(audit.EventPINSetup, false, err)
		return err
	}
	c.audit(audit.EventPINSetup, true, nil)
	return nil
}

// ChangePIN replaces the credential after verifying the current PIN.
func (c *Controller) ChangePIN(currentPin, newPin, confirm string) error {
	if err := ValidatePIN(newPin, c.minPINLen, c.maxPINLen); err != nil {
		return err
	}
	if newPin != confirm {
		return ErrPINMismatch
	}
	if err := c.creds.Change(currentPin, newPin); err != nil {
		c.audit(audit.EventPINChanged, false, err)
		return err
	}
	c.audit(audit.EventPINChanged, true, nil)
	return nil
}

// ResetPIN replaces the credential without the current PIN. The forgot-PIN
// flow gates this behind VerifySecurityAnswers; the controller itself
// requires no proof.
func (c *Controller) ResetPIN(newPin, confirm string) error {
	if err := ValidatePIN(newPin, c.minPINLen, c.maxPINLen); err != nil {
		return err
	}
	if newPin != confirm {
		return ErrPINMismatch
	}
	if err := c.creds.Reset(newPin); err != nil {
		c.audit(audit.EventPINChanged, false, err)
		return err
	}
	c.audit(audit.EventPINChanged, true, nil)
	return nil
}

// ClearCredential deletes the credential and the question set, disables the
// biometric preference (it must not outlive its pairing secret), and lands
// in StateUnauthenticated. The next launch goes through the setup flow.
func (c *Controller) ClearCredential() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.creds.Clear()
	if bioErr := c.gate.SetEnabled(false); bioErr != nil && err == nil {
		err = bioErr
	}
	c.state = StateUnauthenticated

	c.audit(audit.EventPINCleared, err == nil, err)
	return err
}

// =============================================================================
// AUTHENTICATION
// =============================================================================

// Authenticate attempts a PIN unlock. The whole check-verify-record sequence
// runs under one lock so concurrent submissions cannot race the limiter.
//
// An attempt while locked is rejected without touching the credential store
// and without counting as a new failure.
func (c *Controller) Authenticate(pin string) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limiter.IsLocked() {
		res := Result{
			Locked:         true,
			RemainingLock:  c.limiter.RemainingLock(),
			FailedAttempts: c.limiter.FailedAttempts(),
		}
		c.audit(audit.EventAuthBlocked, false, nil)
		c.record(MethodPIN, false, "locked_out")
		return res
	}

	if c.creds.Verify(pin) {
		c.limiter.Reset()
		c.state = StateAuthenticated
		c.audit(audit.EventAuthSuccess, true, nil)
		c.record(MethodPIN, true, "")
		return Result{Authenticated: true}
	}

	c.limiter.RecordFailure()
	res := Result{
		Locked:         c.limiter.IsLocked(),
		RemainingLock:  c.limiter.RemainingLock(),
		FailedAttempts: c.limiter.FailedAttempts(),
	}
	if res.Locked {
		c.audit(audit.EventAuthLocked, false, nil)
		c.record(MethodPIN, false, "wrong_pin_locked")
	} else {
		c.audit(audit.EventAuthFailed, false, nil)
		c.record(MethodPIN, false, "wrong_pin")
	}
	return res
}

// AuthenticateBiometric attempts a biometric unlock. Success is equivalent
// to a correct PIN but the path neither consults nor mutates the rate
// limiter; the platform applies its own lockout policy.
func (c *Controller) AuthenticateBiometric(prompt string) error {
	err := c.gate.Authenticate(prompt)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.audit(audit.EventBiometricFailed, false, err)
		c.record(MethodBiometric, false, err.Error())
		return err
	}

	c.state = StateAuthenticated
	c.audit(audit.EventBiometricSuccess, true, nil)
	c.record(MethodBiometric, true, "")
	return nil
}

// Logout returns to StateUnauthenticated immediately. Any confirmation
// belongs to the UI layer.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateUnauthenticated
	c.audit(audit.EventLogout, true, nil)
}

// =============================================================================
// LOCKOUT STATUS
// =============================================================================

// MaxAttempts returns the limiter's failure threshold, for display.
func (c *Controller) MaxAttempts() int {
	return c.limiter.MaxAttempts()
}

// LockStatus reports the limiter state for countdown display.
func (c *Controller) LockStatus() (locked bool, remaining time.Duration) {
	if c.limiter.IsLocked() {
		return true, c.limiter.RemainingLock()
	}
	return false, 0
}

// =============================================================================
// RECOVERY
// =============================================================================

// SaveSecurityQuestions stores the recovery question set.
func (c *Controller) SaveSecurityQuestions(questions []SecurityQuestion) error {
	if err := c.creds.SaveQuestions(questions); err != nil {
		c.audit(audit.EventQuestionsSaved, false, err)
		return err
	}
	c.audit(audit.EventQuestionsSaved, true, nil)
	return nil
}

// SecurityQuestions returns the stored question texts for prompting.
func (c *Controller) SecurityQuestions() ([]string, error) {
	return c.creds.Questions()
}

// VerifySecurityAnswers checks recovery answers. The result gates ResetPIN
// in the forgot-PIN flow.
func (c *Controller) VerifySecurityAnswers(answers []string) bool {
	ok := c.creds.VerifyAnswers(answers)
	if ok {
		c.audit(audit.EventQuestionsVerified, true, nil)
	} else {
		c.audit(audit.EventQuestionsFailed, false, nil)
	}
	return ok
}

// =============================================================================
// HELPERS
// =============================================================================

// audit emits an audit event; reason strings come from the error, never
// from secret material.
func (c *Controller) audit(eventType string, success bool, err error) {
	e := audit.Event{EventType: eventType, Success: success}
	if err != nil {
		e.Error = err.Error()
	}
	c.auditLog.Record(e)
}

// record forwards the outcome to the attempt sink, best-effort.
func (c *Controller) record(method string, success bool, reason string) {
	if c.sink == nil {
		return
	}
	if err := c.sink.Record(method, success, reason); err != nil {
		fmt.Fprintf(os.Stderr, "attempt journal write failed: %v\n", err)
	}
}
