package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/editor"
)

func dial(t *testing.T, ts *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg interface{}) ServerMessage {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	return readMessage(t, conn)
}

func intPtr(v int) *int { return &v }

func TestWebSocketSession(t *testing.T) {
	s, ts := newTestServer(t, nil)
	conn := dial(t, ts, nil)

	initial := readMessage(t, conn)
	require.Equal(t, MsgState, initial.Type)
	assert.NotEmpty(t, initial.ClientID)
	require.NotNil(t, initial.State)
	assert.Equal(t, "E = mc^2", initial.State.Notation)
	assert.Equal(t, "E = mc⁺2", initial.State.Rendered)
	assert.True(t, initial.State.ShowPreview)

	assert.Eventually(t, func() bool { return s.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	msg := roundTrip(t, conn, ClientMessage{Type: MsgSet, Notation: "x + "})
	require.Equal(t, MsgState, msg.Type)
	assert.Equal(t, 4, msg.State.Start)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgInsert, Token: `\alpha`})
	assert.Equal(t, `x + \alpha`, msg.State.Notation)
	assert.Equal(t, "x + α", msg.State.Rendered)
	assert.Equal(t, 10, msg.State.Start)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgSelect, Start: intPtr(0), End: intPtr(1)})
	assert.Equal(t, 0, msg.State.Start)
	assert.Equal(t, 1, msg.State.End)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgInsert, Token: "y"})
	assert.Equal(t, `y + \alpha`, msg.State.Notation)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgTemplate, Name: "Pythagorean theorem"})
	assert.Equal(t, "a^2 + b^2 = c^2", msg.State.Notation)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgTogglePreview})
	assert.False(t, msg.State.ShowPreview)
	assert.Equal(t, "", msg.State.Rendered)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgReset})
	assert.Equal(t, "", msg.State.Notation)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgPing})
	assert.Equal(t, MsgPong, msg.Type)

	conn.Close()
	assert.Eventually(t, func() bool { return s.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketErrors(t *testing.T) {
	_, ts := newTestServer(t, nil)
	conn := dial(t, ts, nil)
	readMessage(t, conn)

	msg := roundTrip(t, conn, ClientMessage{Type: MsgTemplate, Name: "Navier-Stokes"})
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "Navier-Stokes")
	assert.NotEmpty(t, msg.Hints)

	msg = roundTrip(t, conn, ClientMessage{Type: "explode"})
	assert.Equal(t, MsgError, msg.Type)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgSelect})
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "start")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readMessage(t, conn)
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "malformed")

	// The connection survives bad messages
	msg = roundTrip(t, conn, ClientMessage{Type: MsgPing})
	assert.Equal(t, MsgPong, msg.Type)
}

func TestWebSocketUsesEditorConfig(t *testing.T) {
	_, ts := newTestServer(t, func(c *am.Config) {
		c.Editor.DefaultNotation = `\pi`
		c.Editor.ShowPreview = false
	})
	conn := dial(t, ts, nil)

	msg := readMessage(t, conn)
	assert.Equal(t, `\pi`, msg.State.Notation)
	assert.False(t, msg.State.ShowPreview)
	assert.Equal(t, "", msg.State.Rendered)
}

func TestWebSocketRateLimit(t *testing.T) {
	_, ts := newTestServer(t, func(c *am.Config) {
		c.Server.RendersPerSecond = 0.001
		c.Server.RenderBurst = 1
	})
	conn := dial(t, ts, nil)
	readMessage(t, conn)

	msg := roundTrip(t, conn, ClientMessage{Type: MsgSet, Notation: "a"})
	assert.Equal(t, MsgState, msg.Type)

	msg = roundTrip(t, conn, ClientMessage{Type: MsgSet, Notation: "b"})
	assert.Equal(t, MsgError, msg.Type)
	assert.Contains(t, msg.Error, "too many edits")

	// Selection and preview toggles are not rate limited
	msg = roundTrip(t, conn, ClientMessage{Type: MsgTogglePreview})
	assert.Equal(t, MsgState, msg.Type)
	assert.Equal(t, "a", msg.State.Notation)
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	_, ts := newTestServer(t, nil)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, http.Header{"Origin": []string{"http://evil.test"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestStopClosesClients(t *testing.T) {
	s, ts := newTestServer(t, nil)
	conn := dial(t, ts, nil)
	readMessage(t, conn)

	require.NoError(t, s.Stop())
	assert.Equal(t, ServerStateStopped, s.State())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)

	assert.NoError(t, s.Stop(), "Stop is idempotent")
}

func TestClientHandleSizeLimit(t *testing.T) {
	s, _ := newTestServer(t, func(c *am.Config) { c.Server.MaxNotationBytes = 8 })
	c := &Client{
		server:  s,
		id:      "test",
		session: editor.New("12345678"),
		limiter: rate.NewLimiter(rate.Inf, 1),
	}

	msg := c.handle(&ClientMessage{Type: MsgSet, Notation: "123456789"})
	assert.Equal(t, MsgError, msg.Type)

	msg = c.handle(&ClientMessage{Type: MsgInsert, Token: "x"})
	assert.Equal(t, MsgError, msg.Type)
	assert.Equal(t, "12345678", c.session.Notation(), "rejected edits leave the session untouched")

	msg = c.handle(&ClientMessage{Type: MsgInsert, Token: "x", Start: intPtr(0), End: intPtr(8)})
	require.Equal(t, MsgState, msg.Type, "replacing a selection can shrink the notation")
	assert.Equal(t, "x", msg.State.Notation)
}
