// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Interactive PIN setup.
package cli

import (
	"errors"
	"fmt"

	"github.com/morganforge/ledgerlock/internal/auth"
)

// HandleSetup creates the initial PIN credential interactively.
func HandleSetup(args Args) error {
	if err := RequiresTTY("set up a PIN"); err != nil {
		return err
	}

	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Controller.IsPINSet() {
		ok, err := Confirm("A PIN already exists. Replace it? This invalidates saved security questions.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	if !args.Quiet {
		fmt.Printf("Choose a PIN of %d-%d digits. Repeated (1111) and sequential (1234) PINs are rejected.\n",
			app.Config.Security.MinPINLength, app.Config.Security.MaxPINLength)
	}

	pin, err := promptNewPIN(app)
	if err != nil {
		return err
	}

	if err := app.Controller.SetupPIN(pin, pin); err != nil {
		return err
	}
	successf("PIN created.")

	if err := app.Policy.Touch(); err != nil {
		warnf("could not record activity: %v", err)
	}

	ok, err := Confirm("Set up security questions for PIN recovery now?")
	if err != nil || !ok {
		if !ok {
			fmt.Println(dimStyle.Render("You can add them later with: ledgerlock questions set"))
		}
		return err
	}
	return promptAndSaveQuestions(app)
}

// promptNewPIN reads and confirms a new PIN, re-prompting on validation
// failures so a typo doesn't abort the whole flow.
func promptNewPIN(app *App) (string, error) {
	for {
		pin, err := ReadPIN("New PIN: ")
		if err != nil {
			return "", err
		}
		if err := auth.ValidatePIN(pin, app.Config.Security.MinPINLength, app.Config.Security.MaxPINLength); err != nil {
			failf("%v", err)
			continue
		}

		confirm, err := ReadPIN("Confirm PIN: ")
		if err != nil {
			return "", err
		}
		if pin != confirm {
			failf("%v", auth.ErrPINMismatch)
			continue
		}
		return pin, nil
	}
}

// promptAndSaveQuestions collects security questions and stores them.
func promptAndSaveQuestions(app *App) error {
	var questions []auth.SecurityQuestion
	for i := 1; ; i++ {
		question, err := ReadLine(fmt.Sprintf("Question %d (empty to finish): ", i))
		if err != nil {
			return err
		}
		if question == "" {
			break
		}
		answer, err := ReadSecret("Answer: ")
		if err != nil {
			return err
		}
		if answer == "" {
			failf("answer cannot be empty")
			i--
			continue
		}
		questions = append(questions, auth.SecurityQuestion{Question: question, Answer: answer})
	}

	if len(questions) == 0 {
		fmt.Println("No questions recorded.")
		return nil
	}

	if err := app.Controller.SaveSecurityQuestions(questions); err != nil {
		if errors.Is(err, auth.ErrNoCredential) {
			return fmt.Errorf("set up a PIN before adding security questions")
		}
		return err
	}
	successf("Saved %d security question(s).", len(questions))
	return nil
}
