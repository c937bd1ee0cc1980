// Package chart renders cadence series and distributions as terminal text.
package chart

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const terminalWidthBackup = 80

// TerminalWidth returns the stdout width, or 80 when it is not a terminal.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// ShouldUseColor reports whether w should receive ANSI colour.
func ShouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func painter(w io.Writer, force bool, attr color.Attribute) func(a ...interface{}) string {
	c := color.New(attr)
	if ShouldUseColor(w, force) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}
