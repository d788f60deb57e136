// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDefaultsToLock(t *testing.T) {
	cmd, args := parseArgs(nil)
	assert.Equal(t, CmdLock, cmd)
	assert.False(t, args.Quiet)
	assert.Equal(t, 20, args.Limit)
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"setup"}, CmdSetup},
		{[]string{"unlock"}, CmdUnlock},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"history"}, CmdHistory},
		{[]string{"attempts"}, CmdHistory},
		{[]string{"wipe"}, CmdWipe},
		{[]string{"version"}, CmdVersion},
		{[]string{"--version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"bogus"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := parseArgs(tt.argv)
		assert.Equal(t, tt.want, cmd, "argv %v", tt.argv)
	}
}

func TestParseSubcommands(t *testing.T) {
	cmd, args := parseArgs([]string{"pin", "change"})
	assert.Equal(t, CmdPIN, cmd)
	assert.Equal(t, "change", args.Subcommand)

	cmd, args = parseArgs([]string{"questions", "verify"})
	assert.Equal(t, CmdQuestions, cmd)
	assert.Equal(t, "verify", args.Subcommand)

	cmd, args = parseArgs([]string{"biometric", "on"})
	assert.Equal(t, CmdBiometric, cmd)
	assert.Equal(t, "on", args.Subcommand)

	cmd, args = parseArgs([]string{"bio", "status"})
	assert.Equal(t, CmdBiometric, cmd)
	assert.Equal(t, "status", args.Subcommand)
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs([]string{"--plain", "-q", "unlock"})
	assert.Equal(t, CmdUnlock, cmd)
	assert.True(t, args.Plain)
	assert.True(t, args.Quiet)
}

func TestParseHistoryLimit(t *testing.T) {
	_, args := parseArgs([]string{"history", "--limit", "50"})
	assert.Equal(t, 50, args.Limit)

	_, args = parseArgs([]string{"history", "--limit=5"})
	assert.Equal(t, 5, args.Limit)

	// Garbage keeps the default.
	_, args = parseArgs([]string{"history", "--limit", "many"})
	assert.Equal(t, 20, args.Limit)
}

func TestParseWipeConfirm(t *testing.T) {
	_, args := parseArgs([]string{"wipe"})
	assert.False(t, args.Confirm)

	_, args = parseArgs([]string{"wipe", "--confirm"})
	assert.True(t, args.Confirm)
}
