// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for ledgerlock.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdLock Command = iota // Full-screen lock UI (default)
	CmdSetup
	CmdUnlock
	CmdStatus
	CmdPIN       // pin change | pin reset
	CmdQuestions // questions set | questions verify
	CmdBiometric // biometric on | off | status
	CmdHistory
	CmdWipe
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet bool
	Plain bool // Skip the full-screen UI; prompt on plain stdin/stdout

	// Command-specific
	Subcommand string
	Limit      int  // --limit for history
	Confirm    bool // --confirm for wipe

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `ledgerlock - local PIN and secret management for your ledger

Ledgerlock guards a personal finance data directory behind a PIN,
optional biometrics, and an auto-lock policy. Everything stays on
this machine; there is no account and no network.

Usage:
  ledgerlock                    Lock screen (setup on first run)
  ledgerlock setup              Create the PIN interactively
  ledgerlock unlock             Unlock from the terminal
  ledgerlock status             Show credential and lock state
  ledgerlock pin change         Change the PIN (requires current PIN)
  ledgerlock pin reset          Reset the PIN via security questions
  ledgerlock questions set      Record security questions
  ledgerlock questions verify   Test your recovery answers
  ledgerlock biometric on|off   Toggle biometric unlock
  ledgerlock biometric status   Show biometric availability
  ledgerlock history            Show recent unlock attempts
    --limit N                   Show last N attempts (default: 20)
  ledgerlock wipe --confirm     Delete the credential and all secrets
  ledgerlock version            Show version
  ledgerlock help               Show this help

Global Flags:
  --plain      Plain terminal prompts instead of the full-screen UI
  -q, --quiet  Minimal output

Data lives under ~/.ledgerlock (override with LEDGERLOCK_DATA_DIR or
storage.data_dir in ~/.ledgerlock/config.toml).

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("ledgerlock version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parseArgs(os.Args[1:])
}

// parseArgs is the testable core of Parse.
func parseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdLock, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "lock":
		return CmdLock, args

	case "setup":
		return CmdSetup, args

	case "unlock":
		return CmdUnlock, args

	case "status", "s":
		return CmdStatus, args

	case "pin":
		if len(remaining) > 0 {
			args.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdPIN, args

	case "questions", "question", "recovery":
		if len(remaining) > 0 {
			args.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdQuestions, args

	case "biometric", "bio":
		if len(remaining) > 0 {
			args.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdBiometric, args

	case "history", "attempts":
		parseHistoryArgs(&args, remaining)
		return CmdHistory, args

	case "wipe":
		for _, arg := range remaining {
			if arg == "--confirm" {
				args.Confirm = true
			}
		}
		return CmdWipe, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown commands show help rather than silently doing something.
		args.Raw = append([]string{cmd}, remaining...)
		return CmdHelp, args
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	args := Args{Limit: 20}

	for _, arg := range argv {
		switch arg {
		case "--plain", "--no-ui":
			args.Plain = true
		case "-q", "--quiet":
			args.Quiet = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

// parseHistoryArgs parses history command specific arguments.
func parseHistoryArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]
		switch {
		case arg == "--limit" && i+1 < len(remaining):
			if n, err := strconv.Atoi(remaining[i+1]); err == nil && n > 0 {
				args.Limit = n
			}
			i++
		case strings.HasPrefix(arg, "--limit="):
			if n, err := strconv.Atoi(strings.TrimPrefix(arg, "--limit=")); err == nil && n > 0 {
				args.Limit = n
			}
		}
	}
}
