// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Credential and lock state display.
package cli

import "fmt"

// HandleStatus prints the current credential, biometric, and lock state.
func HandleStatus(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println(labelStyle.Render("ledgerlock status"))
	fmt.Println()

	if app.Controller.IsPINSet() {
		successf("PIN configured")
	} else {
		warnf("No PIN configured (run: ledgerlock setup)")
	}

	if locked, remaining := app.Controller.LockStatus(); locked {
		failf("Locked out for another %s", formatRemaining(remaining))
	} else {
		successf("Not locked out")
	}

	switch {
	case !app.Gate.IsSupported():
		fmt.Println(dimStyle.Render("  Biometric: unavailable on this device"))
	case app.Gate.IsEnabled():
		successf("Biometric unlock enabled (%s)", app.Gate.AvailableType())
	default:
		fmt.Printf("  Biometric: available (%s), disabled\n", app.Gate.AvailableType())
	}

	if idle, ok := app.Policy.IdleTime(); ok {
		fmt.Printf("  Idle: %s (auto-lock after %s)\n", idle.Round(1e9), app.Policy.Threshold())
	} else {
		fmt.Println(dimStyle.Render("  Idle: no activity recorded"))
	}

	if app.Journal != nil {
		if stats, err := app.Journal.Stats(); err == nil && stats.Total > 0 {
			fmt.Printf("  Attempts: %d total, %d failed, last %s\n",
				stats.Total, stats.Failures, stats.LastAt.Format("2006-01-02 15:04"))
		}
	}

	if !args.Quiet {
		fmt.Println()
		fmt.Println(dimStyle.Render("Data directory: " + app.DataDir()))
	}
	return nil
}
