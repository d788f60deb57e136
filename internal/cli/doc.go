// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and command handlers for the
// ledgerlock binary. Interactive PIN entry never echoes; non-TTY invocations
// of interactive commands fail instead of reading secrets from pipes.
package cli
