// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePIN(t *testing.T) {
	tests := []struct {
		name string
		pin  string
		want error
	}{
		{"valid four digits", "2580", nil},
		{"valid six digits", "258013", nil},
		{"too short", "123", ErrPINLength},
		{"too long", "1234567", ErrPINLength},
		{"empty", "", ErrPINLength},
		{"letters", "12ab", ErrPINNotDigits},
		{"whitespace", "12 4", ErrPINNotDigits},
		{"unicode digit lookalike", "12۳4", ErrPINNotDigits},
		{"all same digit", "1111", ErrPINRepeated},
		{"all same six", "777777", ErrPINRepeated},
		{"ascending run", "1234", ErrPINSequential},
		{"descending run", "9876", ErrPINSequential},
		{"ascending six", "123456", ErrPINSequential},
		{"wraparound not sequential", "9012", nil},
		{"near run", "1235", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePIN(tt.pin, MinPINLength, MaxPINLength)
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestValidatePINCustomBounds(t *testing.T) {
	assert.NoError(t, ValidatePIN("25801357", 4, 8))
	assert.ErrorIs(t, ValidatePIN("2580", 6, 8), ErrPINLength)

	// Degenerate bounds fall back to the defaults.
	assert.NoError(t, ValidatePIN("2580", 0, 0))
	assert.ErrorIs(t, ValidatePIN("258", 0, 0), ErrPINLength)
}
