// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - lipgloss styles for CLI output.
package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// successf prints a green status line.
func successf(format string, a ...any) {
	fmt.Println(successStyle.Render("✓") + " " + fmt.Sprintf(format, a...))
}

// failf prints a red status line.
func failf(format string, a ...any) {
	fmt.Println(errorStyle.Render("✗") + " " + fmt.Sprintf(format, a...))
}

// warnf prints an amber status line.
func warnf(format string, a ...any) {
	fmt.Println(warnStyle.Render("!") + " " + fmt.Sprintf(format, a...))
}
