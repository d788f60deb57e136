// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build !windows
// +build !windows

package secrets

// NewKeyStore returns the platform key store. On Unix systems the device
// secret lives in a file protected by 0600/0700 permissions; users wanting
// hardware-backed storage can point the data directory at an encrypted
// volume or use the OS keyring via external tooling.
func NewKeyStore() KeyStore {
	return &FileKeyStore{path: defaultKeyStorePath()}
}
