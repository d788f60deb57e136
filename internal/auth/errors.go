// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import "errors"

var (
	// ErrNoCredential indicates an operation that requires a configured PIN
	// was attempted before setup.
	ErrNoCredential = errors.New("no PIN credential configured")

	// ErrWrongCurrentPIN indicates a change was rejected because the
	// supplied current PIN did not verify.
	ErrWrongCurrentPIN = errors.New("current PIN is incorrect")

	// ErrSetupFailed wraps secret-store failures during PIN setup.
	ErrSetupFailed = errors.New("PIN setup failed")

	// ErrPINMismatch indicates the PIN and its confirmation differ.
	ErrPINMismatch = errors.New("PIN confirmation does not match")

	// PIN format violations. All are recoverable validation errors.
	ErrPINNotDigits  = errors.New("PIN must contain digits only")
	ErrPINLength     = errors.New("PIN length out of range")
	ErrPINSequential = errors.New("PIN must not be a sequential run")
	ErrPINRepeated   = errors.New("PIN must not repeat a single digit")
)
