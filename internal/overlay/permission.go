package overlay

import (
	"os"

	"golang.org/x/term"
)

// TerminalPermission grants drawing while f is attached to a terminal.
func TerminalPermission(f *os.File) Permission {
	return func() bool {
		return term.IsTerminal(int(f.Fd()))
	}
}
