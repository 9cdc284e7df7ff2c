package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"
	"github.com/teranos/formulary/logger"
	"github.com/teranos/formulary/version"
)

// printStartupBanner prints the boxed server summary shown before listening
func printStartupBanner(w io.Writer, verbosity int, url, configPath string) {
	info := version.Get()

	lines := []string{
		fmt.Sprintf("%s %s (commit %s)", pterm.Bold.Sprint("Version:  "), info.Version, info.Short()),
		fmt.Sprintf("%s %s", pterm.Bold.Sprint("Editor:   "), pterm.LightCyan(url)),
		fmt.Sprintf("%s %s", pterm.Bold.Sprint("Verbosity:"), logger.LevelName(verbosity)),
	}
	if configPath != "" {
		lines = append(lines, fmt.Sprintf("%s %s (live reload)", pterm.Bold.Sprint("Config:   "), configPath))
	}

	box := pterm.DefaultBox.WithTitle(pterm.LightGreen("formulary")).Sprint(strings.Join(lines, "\n"))
	fmt.Fprintf(w, "\n%s\n\n", box)
	fmt.Fprintln(w, pterm.LightBlue("Press Ctrl+C to stop"))
}
