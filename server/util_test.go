package server

import (
	"net"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/formulary/am"
)

func TestCheckOrigin(t *testing.T) {
	s, _ := newTestServer(t, func(c *am.Config) {
		c.Server.AllowedOrigins = []string{"http://localhost", "https://editor.example"}
	})

	tests := []struct {
		name   string
		host   string
		origin string
		want   bool
	}{
		{"no origin", "localhost:8790", "", true},
		{"allowed prefix any port", "localhost:8790", "http://localhost:3000", true},
		{"configured remote", "api.example", "https://editor.example", true},
		{"same host", "192.168.1.5:8790", "http://192.168.1.5:8790", true},
		{"foreign", "localhost:8790", "http://evil.test", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, s.checkOrigin(r))
		})
	}
}

func TestListenFallsBack(t *testing.T) {
	busy, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer busy.Close()
	port := listenerPort(busy)

	ln, err := listen(port)
	require.NoError(t, err)
	defer ln.Close()
	assert.NotEqual(t, port, listenerPort(ln))
}

func TestServerStateString(t *testing.T) {
	assert.Equal(t, "draining", ServerStateDraining.String())
	assert.Equal(t, "unknown", ServerState(9).String())
}
