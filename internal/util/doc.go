// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across ledgerlock.
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// Type Conversion:
//   - IntToString, Int64ToString: numeric to string conversion
//   - StringToInt64: string to numeric conversion
package util
