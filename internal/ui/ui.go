// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui holds the small amount of terminal presentation shared by
// the quotezd CLI: color initialization and TTY detection for the
// startup progress bar.
package ui

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// InitColors enables or disables colored output globally, honoring an
// explicit --no-color flag, the NO_COLOR convention, and whether
// stdout is actually a terminal.
func InitColors(noColor bool) {
	if noColor || os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		color.NoColor = true
		return
	}
	color.NoColor = false
}

// IsInteractive reports whether stderr is attached to a terminal, used
// to decide whether to draw the startup corpus-scan progress bar.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stderr.Fd())
}
