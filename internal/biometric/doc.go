// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package biometric gates the platform biometric authentication path.
//
// The platform primitive (hardware probe, enrollment probe, challenge
// prompt) is injected through the Prompter interface; this package decides
// whether the path is usable (supported AND enabled) and maps platform
// outcomes onto a closed error set. A successful biometric challenge counts
// as a full authentication and deliberately bypasses the PIN rate limiter.
package biometric
