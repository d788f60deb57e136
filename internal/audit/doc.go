// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit records authentication events to a local JSONL log.
//
// Events carry outcome and coarse metadata only. PINs, salts, digests and
// security answers are confidentiality-critical and are never written here;
// callers pass reason codes, not values.
package audit
