package report

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ColorEnabled reports whether w is a terminal that should receive styled
// output. NO_COLOR and CI disable styling regardless of the terminal.
func ColorEnabled(w io.Writer, getenv func(string) string) bool {
	if getenv == nil {
		getenv = os.Getenv
	}
	if getenv("NO_COLOR") != "" || getenv("CI") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
