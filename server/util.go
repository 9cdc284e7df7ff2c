package server

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/errors"
)

// checkOrigin validates WebSocket origin against configured allowed origins
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow requests with no origin header (e.g., direct WebSocket clients, testing)
	if origin == "" {
		return true
	}

	// The embedded page talks to the host that served it
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}

	// Prefix matching allows any port number
	for _, allowed := range s.cfg.Load().Server.AllowedOrigins {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}

	s.logger.Warnw("Rejected WebSocket origin", "origin", origin)
	return false
}

// listen binds the requested port, falling back to the default ports and
// then a small high range when it is taken
func listen(requestedPort int) (net.Listener, error) {
	candidates := []int{requestedPort}
	for _, p := range []int{am.DefaultServerPort, am.FallbackServerPort} {
		if p != requestedPort {
			candidates = append(candidates, p)
		}
	}
	for i := 0; i < 10; i++ {
		candidates = append(candidates, am.FallbackServerPort+1+i)
	}

	for _, port := range candidates {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return ln, nil
		}
	}
	return nil, errors.Newf("no available ports found (tried %d, %d and %d-%d)",
		requestedPort, am.DefaultServerPort, am.FallbackServerPort, am.FallbackServerPort+10)
}

// listenerPort returns the TCP port a listener is bound to
func listenerPort(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}
