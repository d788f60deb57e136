// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

// =============================================================================
// PIN FORMAT RULES
// =============================================================================

const (
	// MinPINLength is the shortest acceptable PIN.
	MinPINLength = 4

	// MaxPINLength is the longest acceptable PIN.
	MaxPINLength = 6
)

// ValidatePIN checks the PIN format rules enforced before setup/change:
// digits only, length within [min, max], no purely sequential run
// (ascending or descending), and no single repeated digit.
func ValidatePIN(pin string, min, max int) error {
	if min <= 0 {
		min = MinPINLength
	}
	if max < min {
		max = MaxPINLength
	}

	if len(pin) < min || len(pin) > max {
		return ErrPINLength
	}
	for _, c := range pin {
		if c < '0' || c > '9' {
			return ErrPINNotDigits
		}
	}
	if allSameDigit(pin) {
		return ErrPINRepeated
	}
	if sequentialRun(pin) {
		return ErrPINSequential
	}
	return nil
}

// allSameDigit reports whether every character equals the first.
func allSameDigit(pin string) bool {
	for i := 1; i < len(pin); i++ {
		if pin[i] != pin[0] {
			return false
		}
	}
	return true
}

// sequentialRun reports whether the PIN is a strict ascending or descending
// digit run, like 1234 or 9876. No wrap-around: 9012 is not sequential.
func sequentialRun(pin string) bool {
	ascending := true
	descending := true
	for i := 1; i < len(pin); i++ {
		if pin[i] != pin[i-1]+1 {
			ascending = false
		}
		if pin[i] != pin[i-1]-1 {
			descending = false
		}
	}
	return ascending || descending
}
