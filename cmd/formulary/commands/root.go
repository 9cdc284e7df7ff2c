package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/display"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
)

// RootCmd is the formulary command tree
var RootCmd = &cobra.Command{
	Use:   "formulary",
	Short: "formulary - LaTeX-like notation to readable text",
	Long: `formulary - Render LaTeX-like math notation as a readable text approximation.

Notation such as \frac{a}{b} or \sigma^2 is rewritten by an ordered table of
substitutions into plain Unicode text: (a)/(b), σ⁺2.

Available commands:
  render    - Render notation to text
  symbols   - List the symbol palette
  templates - List example formulas
  template  - Show one example formula
  insert    - Splice a token into notation at a caret
  export    - Export rendered notation as SVG or text
  watch     - Re-render a file whenever it changes
  server    - Start the browser editor
  am        - Manage formulary configuration ("I am")

Examples:
  formulary render '\frac{\pi}{2}'        # (π)/(2)
  echo 'E = mc^2' | formulary render -    # E = mc⁺2
  formulary symbols --category greek      # Greek letters
  formulary export svg -o euler.svg 'e^{i\pi} + 1 = 0'
  formulary server                        # Editor on http://localhost:8790`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initialize,
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	RootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	RootCmd.AddCommand(RenderCmd)
	RootCmd.AddCommand(SymbolsCmd)
	RootCmd.AddCommand(TemplatesCmd)
	RootCmd.AddCommand(TemplateCmd)
	RootCmd.AddCommand(InsertCmd)
	RootCmd.AddCommand(ExportCmd)
	RootCmd.AddCommand(WatchCmd)
	RootCmd.AddCommand(ServerCmd)
	RootCmd.AddCommand(AmCmd)
	RootCmd.AddCommand(VersionCmd)
}

// initialize sets up logging and terminal styling before any command runs.
// The configured log theme applies unless FORMULARY_LOG_THEME overrides it.
func initialize(cmd *cobra.Command, args []string) error {
	display.ConfigureColor()

	if cfg, err := am.Load(); err == nil {
		logger.SetTheme(cfg.Server.LogTheme)
	}

	if err := logger.Initialize(false, verbosityOf(cmd)); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	return nil
}

func verbosityOf(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

// ReportError prints err and any hints attached to it
func ReportError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", pterm.Red("Error:"), err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  %s %s\n", pterm.Cyan("hint:"), hint)
	}
}
