// ledgerlock - Local PIN and secret management for a personal ledger.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/ledgerlock/internal/cli"
	"github.com/morganforge/ledgerlock/internal/ui/lockscreen"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdLock:
		runLockScreen(args)
	case cli.CmdSetup:
		exitOnError(cli.HandleSetup(args))
	case cli.CmdUnlock:
		exitOnError(cli.HandleUnlock(args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(args))
	case cli.CmdPIN:
		exitOnError(cli.HandlePIN(args))
	case cli.CmdQuestions:
		exitOnError(cli.HandleQuestions(args))
	case cli.CmdBiometric:
		exitOnError(cli.HandleBiometric(args))
	case cli.CmdHistory:
		exitOnError(cli.HandleHistory(args))
	case cli.CmdWipe:
		exitOnError(cli.HandleWipe(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		cli.PrintUsage()
		os.Exit(1)
	}
}

// runLockScreen starts the full-screen lock UI, falling back to the plain
// terminal flow when requested or when stdout is not a terminal.
func runLockScreen(args cli.Args) {
	if args.Plain || !cli.IsTTY() {
		runPlainLock(args)
		return
	}

	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	model := lockscreen.New(app.Controller, app.Policy)
	p := tea.NewProgram(model, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(lockscreen.Model); ok && !m.Unlocked() {
		os.Exit(1)
	}
}

// runPlainLock routes first launch to setup, everything else to unlock.
func runPlainLock(args cli.Args) {
	app, err := cli.NewApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	pinSet := app.Controller.IsPINSet()
	app.Close()

	if pinSet {
		exitOnError(cli.HandleUnlock(args))
	} else {
		exitOnError(cli.HandleSetup(args))
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
