package display

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ConfigureColor turns off pterm styling when stdout is not a terminal or
// NO_COLOR is set, so piped output stays clean
func ConfigureColor() {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(os.Stdout) {
		pterm.DisableStyling()
	}
}
