// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"fmt"
	"time"

	"github.com/morganforge/ledgerlock/internal/secrets"
	"github.com/morganforge/ledgerlock/internal/util"
)

// DefaultAutoLockThreshold is the idle window after which a resumed session
// must re-authenticate.
const DefaultAutoLockThreshold = 5 * time.Minute

// =============================================================================
// POLICY
// =============================================================================

// Policy tracks activity and decides when an idle session must lock. The
// last-active timestamp lives in the secret store as epoch milliseconds so it
// survives process restarts.
type Policy struct {
	store     secrets.Store
	threshold time.Duration

	// now is the clock, injectable for tests.
	now func() time.Time
}

// PolicyOption configures a Policy.
type PolicyOption func(*Policy)

// WithThreshold sets the idle window.
func WithThreshold(d time.Duration) PolicyOption {
	return func(p *Policy) {
		if d > 0 {
			p.threshold = d
		}
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) PolicyOption {
	return func(p *Policy) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPolicy creates a policy over the given secret store.
func NewPolicy(store secrets.Store, opts ...PolicyOption) *Policy {
	p := &Policy{
		store:     store,
		threshold: DefaultAutoLockThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Threshold returns the configured idle window.
func (p *Policy) Threshold() time.Duration {
	return p.threshold
}

// Touch records the current moment as the last activity. Called on user
// interaction and on backgrounding.
func (p *Policy) Touch() error {
	millis := p.now().UnixMilli()
	if err := p.store.Set(secrets.KeyLastActive, util.Int64ToString(millis)); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ShouldAutoLock reports whether the idle window has been exceeded. Fails
// closed: a missing, unparsable, or future timestamp all demand a lock.
func (p *Policy) ShouldAutoLock() bool {
	idle, ok := p.idleTime()
	if !ok {
		return true
	}
	return idle >= p.threshold
}

// IdleTime returns the time since the last recorded activity, or 0 and false
// when no trustworthy record exists.
func (p *Policy) IdleTime() (time.Duration, bool) {
	return p.idleTime()
}

// Clear removes the last-active record. The next ShouldAutoLock fails closed.
func (p *Policy) Clear() error {
	return p.store.Delete(secrets.KeyLastActive)
}

func (p *Policy) idleTime() (time.Duration, bool) {
	raw, err := p.store.Get(secrets.KeyLastActive)
	if err != nil {
		return 0, false
	}
	millis, ok := util.StringToInt64(raw)
	if !ok {
		return 0, false
	}
	last := time.UnixMilli(millis)
	idle := p.now().Sub(last)
	if idle < 0 {
		// Clock moved backwards or the record is from the future; do not
		// trust it.
		return 0, false
	}
	return idle, true
}
