// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// wipe_cmd.go - Credential and secret deletion.
package cli

import "fmt"

// HandleWipe deletes the PIN credential, security questions, and biometric
// preference. The explicit --confirm flag is required; there is no recovery.
func HandleWipe(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if !args.Confirm {
		if err := RequiresTTY("confirm wipe"); err != nil {
			return fmt.Errorf("refusing to wipe without --confirm")
		}
		ok, err := Confirm("Delete the PIN, security questions, and biometric preference? This cannot be undone.")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Wipe cancelled.")
			return nil
		}
	}

	if err := app.Controller.ClearCredential(); err != nil {
		return err
	}
	if err := app.Policy.Clear(); err != nil {
		warnf("could not clear activity record: %v", err)
	}

	successf("Credential wiped. Run 'ledgerlock setup' to start over.")
	return nil
}
