// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the local authentication core: PIN lifecycle,
// brute-force lockout, and the controller that turns both (plus the
// biometric gate) into a single authentication decision for the UI shell.
//
// Layering:
//
//   - CredentialService owns the salted PIN credential and the security
//     question set in the secret store.
//   - RateLimiter is the in-memory failed-attempt state machine. It is
//     process-local on purpose: lockout state resets on restart.
//   - Controller orchestrates the two with the biometric gate and applies
//     PIN format rules before any credential write.
//
// All shared state is mutex-serialized; concurrent PIN submissions cannot
// race the failure counter past the lockout threshold.
package auth
