package ui

import (
	"os"

	"github.com/charmbracelet/x/term"
	xterm "golang.org/x/term"
)

const defaultWidth = 80

// IsTTY returns true if stderr is a terminal.
func IsTTY() bool {
	return term.IsTerminal(os.Stderr.Fd())
}

// CanPrompt reports whether both stdin and stdout are terminals.
func CanPrompt() bool {
	return term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd())
}

// Width returns the width of stdout, or 80 when it is not a terminal.
func Width() int {
	w, _, err := xterm.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
