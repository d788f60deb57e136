// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Recent unlock attempt display.
package cli

import "fmt"

// HandleHistory prints recent authentication attempts from the journal.
func HandleHistory(args Args) error {
	app, err := NewApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Journal == nil {
		return fmt.Errorf("attempt journal is unavailable")
	}

	attempts, err := app.Journal.Recent(args.Limit)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Println("No attempts recorded.")
		return nil
	}

	for _, a := range attempts {
		mark := successStyle.Render("✓")
		detail := ""
		if !a.Success {
			mark = errorStyle.Render("✗")
			detail = "  " + dimStyle.Render(a.Reason)
		}
		fmt.Printf("%s %s  %-9s%s\n",
			mark, a.Timestamp.Format("2006-01-02 15:04:05"), a.Method, detail)
	}

	if !args.Quiet {
		stats, err := app.Journal.Stats()
		if err == nil {
			fmt.Println()
			fmt.Println(dimStyle.Render(
				fmt.Sprintf("%d total, %d failed", stats.Total, stats.Failures)))
		}
	}
	return nil
}
