// Package server serves formulary's live preview: a JSON API over the symbol
// catalog and render engine, a WebSocket per editing session, and an
// embedded single-page editor.
package server

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/export"
	"github.com/teranos/formulary/logger"
)

// ShutdownTimeout bounds how long Stop waits for connections and goroutines
const ShutdownTimeout = 5 * time.Second

// ServerState tracks the lifecycle of a Server
type ServerState int32

const (
	ServerStateRunning ServerState = iota
	ServerStateDraining
	ServerStateStopped
)

func (s ServerState) String() string {
	switch s {
	case ServerStateRunning:
		return "running"
	case ServerStateDraining:
		return "draining"
	case ServerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Server is the live preview server
type Server struct {
	cfg       atomic.Pointer[am.Config]
	exportOpt atomic.Pointer[export.Options]
	logger    *zap.SugaredLogger
	verbosity atomic.Int32
	state     atomic.Int32

	clients    map[*Client]bool
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	router        http.Handler
	upgrader      websocket.Upgrader
	httpServer    *http.Server
	configWatcher *am.ConfigWatcher
	stopOnce      sync.Once
}

// Option configures a Server
type Option func(*Server)

// WithLogger replaces the default "server" component logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVerbosity sets the -v count used to gate output categories
func WithVerbosity(v int) Option {
	return func(s *Server) {
		s.verbosity.Store(int32(v))
	}
}

// New creates a server from a validated configuration and starts its
// client hub. Call Stop to release it.
func New(cfg *am.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.NewInvalidConfigError("server requires a configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		logger:     logger.ComponentLogger("server"),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.applyConfig(cfg)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     s.checkOrigin,
	}
	s.router = s.routes()
	s.state.Store(int32(ServerStateRunning))

	s.wg.Add(1)
	go s.run()

	return s, nil
}

// Handler returns the HTTP handler serving every route
func (s *Server) Handler() http.Handler {
	return s.router
}

// Config returns the configuration currently in effect
func (s *Server) Config() *am.Config {
	return s.cfg.Load()
}

// State returns the lifecycle state
func (s *Server) State() ServerState {
	return ServerState(s.state.Load())
}

func (s *Server) setState(newState ServerState) {
	s.state.Store(int32(newState))
	s.logger.Infow("Server state changed", "new_state", newState.String())
}

// ClientCount returns the number of connected WebSocket clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// applyConfig swaps in a new configuration. Connected clients keep their
// rate limiter; export options apply to the next export.
func (s *Server) applyConfig(cfg *am.Config) {
	opts := export.FromConfig(cfg.Export)
	s.cfg.Store(cfg)
	s.exportOpt.Store(&opts)
	logger.SetTheme(cfg.Server.LogTheme)
}

// run is the client hub. It owns registration so pumps never touch the
// client map directly.
func (s *Server) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return

		case client := <-s.register:
			s.mu.Lock()
			s.clients[client] = true
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Infow("Client connected", logger.FieldClientID, client.id, "clients", count)

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				client.closeSend()
			}
			count := len(s.clients)
			s.mu.Unlock()
			s.logger.Infow("Client disconnected", logger.FieldClientID, client.id, "clients", count)
		}
	}
}
