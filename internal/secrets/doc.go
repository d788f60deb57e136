// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secrets provides the secure key/value store backing ledgerlock's
// authentication state.
//
// The Store interface models the platform secure string store: opaque string
// values addressed by well-known keys. Two implementations ship:
//
//   - FileStore: an AES-256-GCM encrypted document on disk, with the
//     encryption key derived from a device secret held in a platform
//     KeyStore (DPAPI on Windows, a 0600-permission file elsewhere).
//   - MemoryStore: an in-process map for tests.
//
// Values stored here are confidentiality-critical. Nothing in this package
// logs key contents, and callers must not either.
package secrets
