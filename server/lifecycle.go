package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
)

// WatchConfig reloads configuration when configPath changes. A reloaded
// configuration that fails validation is ignored.
func (s *Server) WatchConfig(configPath string) error {
	cw, err := am.NewConfigWatcher(configPath)
	if err != nil {
		return err
	}
	cw.OnReload(func(cfg *am.Config) error {
		s.applyConfig(cfg)
		s.logger.Infow("Applied reloaded config",
			logger.FieldFile, configPath,
			"export_size", fmt.Sprintf("%dx%d", cfg.Export.Width, cfg.Export.Height),
		)
		return nil
	})

	s.configWatcher = cw
	am.SetGlobalWatcher(cw)
	return nil
}

// Start listens on port (or a fallback when it is taken) and serves until
// Stop is called. onReady, when non-nil, receives the URL once listening.
func (s *Server) Start(port int, onReady func(url string)) error {
	ln, err := listen(port)
	if err != nil {
		return errors.Wrap(err, "failed to find available port")
	}

	actual := listenerPort(ln)
	if actual != port {
		s.logger.Infow("Port in use, using alternative",
			"requested_port", port,
			"actual_port", actual,
		)
	}

	return s.Serve(ln, onReady)
}

// Serve serves on an existing listener until Stop is called
func (s *Server) Serve(ln net.Listener, onReady func(url string)) error {
	hs := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = hs
	s.mu.Unlock()

	url := fmt.Sprintf("http://localhost:%d", listenerPort(ln))
	s.logger.Infow("Server ready", "url", url, logger.FieldPort, listenerPort(ln))
	if onReady != nil {
		onReady(url)
	}

	if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "http server failed")
	}
	return nil
}

// Stop gracefully shuts down the server and cleans up resources. It is safe
// to call more than once.
func (s *Server) Stop() error {
	var err error
	s.stopOnce.Do(func() { err = s.stop() })
	return err
}

func (s *Server) stop() error {
	s.logger.Infow("Initiating server shutdown")
	s.setState(ServerStateDraining)

	s.mu.RLock()
	hs := s.httpServer
	s.mu.RUnlock()

	var shutdownErr error
	if hs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		shutdownErr = hs.Shutdown(ctx)
		cancel()
	}

	// Hijacked WebSocket connections are not closed by Shutdown
	s.mu.Lock()
	clientsToClose := make([]*Client, 0, len(s.clients))
	for client := range s.clients {
		clientsToClose = append(clientsToClose, client)
		delete(s.clients, client)
	}
	s.mu.Unlock()

	if len(clientsToClose) > 0 {
		s.logger.Infow("Closing client connections", logger.FieldCount, len(clientsToClose))
		for _, client := range clientsToClose {
			client.conn.Close()
		}
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Infow("All goroutines stopped cleanly")
	case <-time.After(ShutdownTimeout):
		s.logger.Warnw("Goroutine shutdown timed out, forcing exit", "timeout", ShutdownTimeout)
	}

	if s.configWatcher != nil {
		if err := s.configWatcher.Stop(); err != nil {
			s.logger.Warnw("Failed to stop config watcher", logger.FieldError, err)
		}
		am.SetGlobalWatcher(nil)
	}

	s.setState(ServerStateStopped)
	s.logger.Infow("Server shutdown complete")

	if shutdownErr != nil {
		return errors.Wrap(shutdownErr, "http shutdown")
	}
	return nil
}
