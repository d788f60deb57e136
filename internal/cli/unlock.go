// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// unlock.go - Terminal unlock flow with lockout countdown.
package cli

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// HandleUnlock runs the plain-terminal unlock loop.
func HandleUnlock(args Args) error {
	if err := RequiresTTY("unlock"); err != nil {
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

	if app.Policy.ShouldAutoLock() && !args.Quiet {
		fmt.Println(dimStyle.Render("Session locked after inactivity."))
	}

	for {
		if locked, _ := app.Controller.LockStatus(); locked {
			if err := waitForLockout(app); err != nil {
				return err
			}
		}

		pin, err := ReadPIN("PIN: ")
		if err != nil {
			return err
		}

		res := app.Controller.Authenticate(pin)
		switch {
		case res.Authenticated:
			if err := app.Policy.Touch(); err != nil {
				warnf("could not record activity: %v", err)
			}
			successf("Unlocked.")
			return nil

		case res.Locked:
			failf("Too many failed attempts.")

		default:
			left := app.Controller.MaxAttempts() - res.FailedAttempts
			failf("Wrong PIN. %d attempt(s) before lockout.", left)
		}
	}
}

// waitForLockout blocks until the lock window passes, repainting a one-line
// countdown. A rate limiter paces the redraw to one frame per second.
func waitForLockout(app *App) error {
	frames := rate.NewLimiter(rate.Every(time.Second), 1)

	for {
		locked, remaining := app.Controller.LockStatus()
		if !locked {
			fmt.Print("\r\033[K")
			return nil
		}
		fmt.Printf("\r\033[K%s", warnStyle.Render(
			fmt.Sprintf("Locked out. Try again in %s.", formatRemaining(remaining))))

		if err := frames.Wait(context.Background()); err != nil {
			return err
		}
	}
}
