// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// pin_cmd.go - PIN change and recovery-reset commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/morganforge/ledgerlock/internal/auth"
)

// HandlePIN routes the pin subcommands.
func HandlePIN(args Args) error {
	switch args.Subcommand {
	case "change":
		return handlePINChange(args)
	case "reset":
		return handlePINReset(args)
	default:
		return fmt.Errorf("unknown pin subcommand %q (expected: change, reset)", args.Subcommand)
	}
}

// handlePINChange replaces the PIN after verifying the current one.
func handlePINChange(args Args) error {
	if err := RequiresTTY("change the PIN"); err != nil {
		return err
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Controller.IsPINSet() {
		return fmt.Errorf("no PIN configured; run: ledgerlock setup")
	}

	current, err := ReadPIN("Current PIN: ")
	if err != nil {
		return err
	}
	newPin, err := promptNewPIN(app)
	if err != nil {
		return err
	}

	if err := app.Controller.ChangePIN(current, newPin, newPin); err != nil {
		if errors.Is(err, auth.ErrWrongCurrentPIN) {
			return fmt.Errorf("current PIN is incorrect")
		}
		return err
	}
	successf("PIN changed.")
	warnf("Saved security questions were invalidated; run: ledgerlock questions set")
	return nil
}

// handlePINReset replaces a forgotten PIN after the security-question gate.
func handlePINReset(args Args) error {
	if err := RequiresTTY("reset the PIN"); err != nil {
		return err
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Controller.IsPINSet() {
		return fmt.Errorf("no PIN configured; run: ledgerlock setup")
	}

	questions, err := app.Controller.SecurityQuestions()
	if err != nil || len(questions) == 0 {
		return fmt.Errorf("no security questions on record; PIN reset is not possible.\n" +
			"To start over (deleting all secrets): ledgerlock wipe --confirm")
	}

	fmt.Println("Answer your security questions to reset the PIN.")
	answers := make([]string, len(questions))
	for i, q := range questions {
		answer, err := ReadSecret(fmt.Sprintf("%s\n> ", q))
		if err != nil {
			return err
		}
		answers[i] = answer
	}

	if !app.Controller.VerifySecurityAnswers(answers) {
		return fmt.Errorf("answers did not match")
	}
	successf("Identity verified.")

	newPin, err := promptNewPIN(app)
	if err != nil {
		return err
	}
	if err := app.Controller.ResetPIN(newPin, newPin); err != nil {
		return err
	}
	successf("PIN reset.")
	warnf("Saved security questions were invalidated; run: ledgerlock questions set")
	return nil
}
