// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for ledgerlock.
//
// Configuration comes from ~/.ledgerlock/config.toml with built-in defaults
// and LEDGERLOCK_* environment variable overrides. Out-of-range security
// values are clamped, never silently disabled.
package config
