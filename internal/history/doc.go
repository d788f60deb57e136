// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps a local journal of authentication attempts.
//
// The journal is observational only: it records outcomes (never PINs or
// answers) in a SQLite database so the user can review recent unlock
// activity. Nothing in the authentication decision path reads it.
package history
