package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/export"
	"github.com/teranos/formulary/internal/watch"
	"github.com/teranos/formulary/logger"
	"github.com/teranos/formulary/render"
)

// WatchCmd re-renders a notation file every time it is saved
var WatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a notation file whenever it changes",
	Long: `Render the notation in a file, then render it again every time the file
is saved. Press Ctrl+C to stop.

Examples:
  formulary watch formula.tex
  formulary watch --svg formula.svg formula.tex`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchSVG      string
	watchDebounce time.Duration
)

func init() {
	WatchCmd.Flags().StringVar(&watchSVG, "svg", "", "Also export an SVG to this file on every change")
	WatchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "cannot watch %s", path),
			"create the file first; watch follows an existing file",
		)
	}

	var opts export.Options
	if watchSVG != "" {
		var err error
		if opts, err = exportOptions(cmd); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	verbosity := verbosityOf(cmd)

	var mu sync.Mutex
	rerender := func() {
		mu.Lock()
		defer mu.Unlock()

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warnw("Failed to read watched file", logger.FieldFile, path, logger.FieldError, err)
			return
		}
		notation := strings.TrimRight(string(data), "\r\n")
		fmt.Fprintln(out, render.Render(notation))

		if watchSVG != "" {
			if _, err := export.WriteSVGFile(watchSVG, notation, opts); err != nil {
				logger.Warnw("Failed to export SVG", logger.FieldFile, watchSVG, logger.FieldError, err)
			}
		}
	}

	rerender()

	w, err := watch.New(path, func(string) {
		if logger.ShouldOutput(verbosity, logger.OutputProgress) {
			logger.Infow("File changed, re-rendering", logger.FieldFile, path)
		}
		rerender()
	}, watch.WithDebounce(watchDebounce))
	if err != nil {
		return err
	}
	defer w.Close()

	if logger.ShouldOutput(verbosity, logger.OutputProgress) {
		logger.Infow("Watching for changes", logger.FieldFile, w.Path())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
