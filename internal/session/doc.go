// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements the auto-lock policy.
//
// The policy persists a last-active timestamp in the secret store and
// answers one question on resume: has the idle window been exceeded? Missing
// or unreadable state fails closed — when in doubt, lock.
package session
