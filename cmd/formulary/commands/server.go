package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
	"github.com/teranos/formulary/server"
)

// ServerCmd starts the browser editor
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the formulary editor server",
	Long: `Launch the browser editor: a notation text box, a symbol palette, the
example formulas and a live preview. The HTTP API and the /ws session
endpoint are served from the same port.

The port comes from --port, then server.port in am.toml. When the port is
taken the next free fallback port is used. Edits to am.toml are applied
without a restart.`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

var (
	serverPort    int
	serverNoWatch bool
)

func init() {
	ServerCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (default from server.port)")
	ServerCmd.Flags().BoolVar(&serverNoWatch, "no-watch", false, "Do not reload am.toml on change")
}

// watchTarget picks the highest-precedence config file that exists, since
// that is the one a user is most likely editing.
func watchTarget(sources []am.SourceInfo) string {
	for i := len(sources) - 1; i >= 0; i-- {
		if sources[i].Exists && sources[i].Source != am.SourceSystem {
			return sources[i].Path
		}
	}
	return ""
}

func runServer(cmd *cobra.Command, args []string) error {
	// The server defaults to informational logging
	verbosity := verbosityOf(cmd)
	if verbosity == 0 {
		verbosity = 1
		if err := logger.Initialize(false, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	port := serverPort
	if port == 0 {
		port = am.GetServerPort()
	}

	srv, err := server.New(cfg,
		server.WithLogger(logger.ComponentLogger("server")),
		server.WithVerbosity(verbosity),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	var configPath string
	if !serverNoWatch {
		if configPath = watchTarget(am.Sources()); configPath != "" {
			if err := srv.WatchConfig(configPath); err != nil {
				logger.Warnw("Config hot reload disabled", logger.FieldFile, configPath, logger.FieldError, err)
				configPath = ""
			}
		}
	}

	out := cmd.OutOrStdout()
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(port, func(url string) {
			printStartupBanner(out, verbosity, url, configPath)
		})
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		_ = srv.Stop()
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-cmd.Context().Done():
		return srv.Stop()
	case <-sigChan:
		pterm.Info.Println("Shutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			shutdownDone <- srv.Stop()
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return errors.Wrap(err, "shutdown error")
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("Force shutdown - exiting immediately")
			os.Exit(1)
			return nil
		}
	}
}
