// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// questions_cmd.go - Security question management.
package cli

import "fmt"

// HandleQuestions routes the questions subcommands.
func HandleQuestions(args Args) error {
	switch args.Subcommand {
	case "set":
		return handleQuestionsSet(args)
	case "verify", "test":
		return handleQuestionsVerify(args)
	default:
		return fmt.Errorf("unknown questions subcommand %q (expected: set, verify)", args.Subcommand)
	}
}

// handleQuestionsSet records a fresh question set after verifying the PIN.
func handleQuestionsSet(args Args) error {
	if err := RequiresTTY("set security questions"); err != nil {
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

	// Recording recovery questions is a credential-grade change; prove the
	// PIN first.
	pin, err := ReadPIN("PIN: ")
	if err != nil {
		return err
	}
	res := app.Controller.Authenticate(pin)
	if !res.Authenticated {
		if res.Locked {
			return fmt.Errorf("locked out; try again in %s", formatRemaining(res.RemainingLock))
		}
		return fmt.Errorf("wrong PIN")
	}

	return promptAndSaveQuestions(app)
}

// handleQuestionsVerify dry-runs the recovery answers.
func handleQuestionsVerify(args Args) error {
	if err := RequiresTTY("verify security answers"); err != nil {
		return err
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	questions, err := app.Controller.SecurityQuestions()
	if err != nil || len(questions) == 0 {
		return fmt.Errorf("no security questions on record")
	}

	answers := make([]string, len(questions))
	for i, q := range questions {
		answer, err := ReadSecret(fmt.Sprintf("%s\n> ", q))
		if err != nil {
			return err
		}
		answers[i] = answer
	}

	if app.Controller.VerifySecurityAnswers(answers) {
		successf("Answers match.")
		return nil
	}
	return fmt.Errorf("answers did not match")
}
