// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"sync"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultMaxFailedAttempts is the number of failures before lockout.
	DefaultMaxFailedAttempts = 5

	// DefaultLockoutDuration is how long a lockout lasts.
	DefaultLockoutDuration = 30 * time.Second
)

// =============================================================================
// RATE LIMITER
// =============================================================================

// RateLimiter tracks consecutive failed authentication attempts and locks
// out further attempts once the threshold is reached.
//
// State is process-local only: a restart clears it. There is no background
// timer — an expired lock window is cleared lazily by the next status check,
// so countdown display requires the caller to poll.
type RateLimiter struct {
	mu sync.Mutex

	maxAttempts     int
	lockoutDuration time.Duration

	failedAttempts int
	lockUntil      time.Time

	// now is the clock, injectable for tests.
	now func() time.Time
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithMaxAttempts sets the failure threshold.
func WithMaxAttempts(max int) RateLimiterOption {
	return func(r *RateLimiter) {
		if max > 0 {
			r.maxAttempts = max
		}
	}
}

// WithLockoutDuration sets the lock window length.
func WithLockoutDuration(d time.Duration) RateLimiterOption {
	return func(r *RateLimiter) {
		if d > 0 {
			r.lockoutDuration = d
		}
	}
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRateLimiter creates a limiter in the Open state.
func NewRateLimiter(opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		maxAttempts:     DefaultMaxFailedAttempts,
		lockoutDuration: DefaultLockoutDuration,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsLocked reports whether attempts are currently rejected. An expired lock
// window is cleared here as a side effect: both the counter and the deadline
// reset, so the next failure counts as the first of a fresh series.
func (r *RateLimiter) IsLocked() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireLocked()
	return !r.lockUntil.IsZero()
}

// RemainingLock returns the time left in the lock window, or 0 when open.
func (r *RateLimiter) RemainingLock() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireLocked()
	if r.lockUntil.IsZero() {
		return 0
	}
	return r.lockUntil.Sub(r.now())
}

// RecordFailure counts one failed attempt. Crossing the threshold from the
// Open state arms the lock window; additional failures while already locked
// keep counting but never move the deadline.
func (r *RateLimiter) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireLocked()

	r.failedAttempts++
	if r.failedAttempts >= r.maxAttempts && r.lockUntil.IsZero() {
		r.lockUntil = r.now().Add(r.lockoutDuration)
	}
}

// Reset returns the limiter to Open with a zero counter. Called on any
// successful authentication.
func (r *RateLimiter) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failedAttempts = 0
	r.lockUntil = time.Time{}
}

// FailedAttempts returns the current consecutive failure count.
func (r *RateLimiter) FailedAttempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expireLocked()
	return r.failedAttempts
}

// MaxAttempts returns the configured failure threshold.
func (r *RateLimiter) MaxAttempts() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.maxAttempts
}

// expireLocked clears an elapsed lock window (caller must hold the lock).
func (r *RateLimiter) expireLocked() {
	if r.lockUntil.IsZero() {
		return
	}
	if !r.now().Before(r.lockUntil) {
		r.failedAttempts = 0
		r.lockUntil = time.Time{}
	}
}
