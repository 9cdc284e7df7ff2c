package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/teranos/formulary/display"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
	"github.com/teranos/formulary/render"
)

// RenderCmd renders notation given as an argument or on stdin
var RenderCmd = &cobra.Command{
	Use:   "render [notation|-]",
	Short: "Render notation to text",
	Long: `Render LaTeX-like notation to its text approximation.

With no argument, or "-", the notation is read from stdin. Use --trace (or
-vvv) to see every rule that changed the notation along the way.

Examples:
  formulary render '\sqrt{x^2 + y^2}'
  formulary render --trace '\frac{\pi}{2}^2'
  cat formula.tex | formulary render`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

var renderTrace bool

func init() {
	RenderCmd.Flags().BoolVar(&renderTrace, "trace", false, "Show every rule that changed the notation")
}

type renderResult struct {
	Notation string        `json:"notation"`
	Rendered string        `json:"rendered"`
	Steps    []render.Step `json:"steps,omitempty"`
}

func runRender(cmd *cobra.Command, args []string) error {
	notation, err := readNotation(cmd, args)
	if err != nil {
		return err
	}

	verbosity := verbosityOf(cmd)
	showTrace := renderTrace || logger.ShouldOutput(verbosity, logger.OutputRenderTrace)

	start := time.Now()
	rendered, steps := render.Trace(notation)
	if logger.ShouldOutput(verbosity, logger.OutputTiming) {
		logger.Debugw("Rendered notation",
			logger.FieldNotation, notation,
			logger.FieldCount, len(steps),
			logger.FieldDurationMS, time.Since(start).Milliseconds(),
		)
	}

	if display.ShouldOutputJSON(cmd) {
		result := renderResult{Notation: notation, Rendered: rendered}
		if showTrace {
			result.Steps = steps
		}
		return display.WriteJSON(cmd.OutOrStdout(), result)
	}

	if showTrace {
		if err := writeTrace(cmd.ErrOrStderr(), steps); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// writeTrace prints the rules that fired, one row per step
func writeTrace(w io.Writer, steps []render.Step) error {
	if len(steps) == 0 {
		_, err := fmt.Fprintln(w, "no rules applied")
		return err
	}
	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		rows = append(rows, []string{fmt.Sprint(i + 1), string(s.Stage), s.Rule, s.After})
	}
	return display.WriteTable(w, []string{"#", "STAGE", "RULE", "RESULT"}, rows)
}

// readNotation takes the notation from args, or from stdin when args is
// empty or "-". A trailing newline from stdin is dropped.
func readNotation(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && len(args) == 0 && display.IsTerminal(f) {
		return "", errors.WithHint(
			errors.NewInvalidRequestError("no notation given"),
			"pass notation as an argument or pipe it on stdin",
		)
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", errors.Wrap(err, "failed to read notation from stdin")
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
