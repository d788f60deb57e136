// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// biometric_cmd.go - Biometric preference management.
package cli

import "fmt"

// HandleBiometric routes the biometric subcommands.
func HandleBiometric(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	switch args.Subcommand {
	case "on", "enable":
		if !app.Controller.IsPINSet() {
			return fmt.Errorf("set up a PIN before enabling biometric unlock")
		}
		if !app.Gate.IsSupported() {
			return fmt.Errorf("biometric authentication is not available on this device")
		}
		if err := app.Gate.SetEnabled(true); err != nil {
			return err
		}
		successf("Biometric unlock enabled (%s).", app.Gate.AvailableType())
		return nil

	case "off", "disable":
		if err := app.Gate.SetEnabled(false); err != nil {
			return err
		}
		successf("Biometric unlock disabled.")
		return nil

	case "status", "":
		if !app.Gate.IsSupported() {
			fmt.Println("Biometric: unavailable on this device")
			return nil
		}
		state := "disabled"
		if app.Gate.IsEnabled() {
			state = "enabled"
		}
		fmt.Printf("Biometric: %s (%s)\n", state, app.Gate.AvailableType())
		return nil

	default:
		return fmt.Errorf("unknown biometric subcommand %q (expected: on, off, status)", args.Subcommand)
	}
}
