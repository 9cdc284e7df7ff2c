package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/teranos/formulary/editor"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
	"github.com/teranos/formulary/render"
)

// WebSocket timeouts following the gorilla chat example
const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = 54 * time.Second

	// Outgoing messages buffered per client before new ones are dropped
	sendBuffer = 16
)

// Client is one WebSocket connection with its own editing session
type Client struct {
	server    *Server
	conn      *websocket.Conn
	send      chan *ServerMessage
	id        string
	session   *editor.Session
	limiter   *rate.Limiter
	closeOnce sync.Once
}

func (s *Server) newClient(conn *websocket.Conn) *Client {
	cfg := s.cfg.Load()

	session := editor.New(cfg.Editor.DefaultNotation)
	session.SetShowPreview(cfg.Editor.ShowPreview)

	return &Client{
		server:  s,
		conn:    conn,
		send:    make(chan *ServerMessage, sendBuffer),
		id:      uuid.New().String(),
		session: session,
		limiter: rate.NewLimiter(rate.Limit(cfg.Server.RendersPerSecond), cfg.Server.RenderBurst),
	}
}

// handleWebSocket upgrades the connection, registers the client with the
// hub and starts its pumps. The first message is the initial state.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.State() != ServerStateRunning {
		writeError(w, r, errors.New("server is shutting down"))
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		s.logger.Debugw("WebSocket upgrade failed", logger.FieldError, err)
		return
	}

	client := s.newClient(conn)

	select {
	case s.register <- client:
	case <-s.ctx.Done():
		conn.Close()
		return
	}

	client.enqueue(client.stateMessage())

	s.wg.Add(2)
	go client.writePump()
	go client.readPump()
}

// readPump handles reading messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.ctx.Done():
		}
		c.conn.Close()
		c.server.wg.Done()
	}()

	// A set message carrying a notation at the size limit must still fit,
	// with room for JSON escaping
	limit := int64(c.server.maxNotationBytes())*2 + envelopeAllowance
	c.conn.SetReadLimit(limit)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		verbosity := int(c.server.verbosity.Load())
		if logger.ShouldOutput(verbosity, logger.OutputWebSocket) {
			c.server.logger.Debugw("Received WebSocket message",
				logger.FieldClientID, c.id,
				logger.FieldSize, len(data),
			)
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.enqueue(errorMessage(errors.NewInvalidRequestError("malformed message: %v", err)))
			continue
		}

		c.enqueue(c.handle(&msg))
	}
}

// handleReadError logs unexpected WebSocket read errors.
// Expected closure codes (going away, abnormal, no status) are silently ignored.
func (c *Client) handleReadError(err error) {
	if websocket.IsUnexpectedCloseError(err,
		websocket.CloseGoingAway,
		websocket.CloseNormalClosure,
		websocket.CloseAbnormalClosure,
		websocket.CloseNoStatusReceived,
	) {
		c.server.logger.Warnw("WebSocket read error",
			logger.FieldClientID, c.id,
			logger.FieldError, err,
		)
	}
}

// writePump pumps messages from the send channel to the connection and
// keeps it alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.server.wg.Done()
	}()

	for {
		select {
		case <-c.server.ctx.Done():
			return

		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Debugw("WebSocket write error",
					logger.FieldClientID, c.id,
					logger.FieldError, err,
				)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue hands msg to the write pump without blocking the read pump
func (c *Client) enqueue(msg *ServerMessage) {
	select {
	case c.send <- msg:
	default:
		c.server.logger.Warnw("Client send buffer full, dropping message",
			logger.FieldClientID, c.id,
			"type", msg.Type,
		)
	}
}

// closeSend closes the send channel once; the write pump then sends a
// close frame
func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// handle applies one command to the client's session and returns the reply
func (c *Client) handle(msg *ClientMessage) *ServerMessage {
	if err := validate.Struct(msg); err != nil {
		return errorMessage(validationError(err))
	}

	switch msg.Type {
	case MsgPing:
		return &ServerMessage{Type: MsgPong}
	case MsgSet, MsgInsert, MsgTemplate:
		if !c.limiter.Allow() {
			return errorMessage(errors.WithHint(
				errors.NewInvalidRequestError("too many edits"),
				"raise server.renders_per_second in am.toml",
			))
		}
	}

	switch msg.Type {
	case MsgSet:
		if err := c.server.checkNotationSize(msg.Notation); err != nil {
			return errorMessage(err)
		}
		c.session.SetNotation(msg.Notation)

	case MsgInsert:
		if msg.Start != nil {
			end := *msg.Start
			if msg.End != nil {
				end = *msg.End
			}
			c.session.Select(*msg.Start, end)
		}
		start, end := c.session.Selection()
		candidate, _ := render.InsertRange(c.session.Notation(), start, end, msg.Token)
		if err := c.server.checkNotationSize(candidate); err != nil {
			return errorMessage(err)
		}
		c.session.Insert(msg.Token)
		if logger.ShouldOutput(int(c.server.verbosity.Load()), logger.OutputWebSocket) {
			c.server.logger.Debugw("Inserted token",
				logger.FieldClientID, c.id,
				logger.FieldToken, msg.Token,
				"start", start,
				"end", end,
			)
		}

	case MsgSelect:
		end := *msg.Start
		if msg.End != nil {
			end = *msg.End
		}
		c.session.Select(*msg.Start, end)

	case MsgTemplate:
		if err := c.session.LoadTemplate(msg.Name); err != nil {
			return errorMessage(err)
		}

	case MsgReset:
		c.session.Reset()

	case MsgTogglePreview:
		c.session.TogglePreview()
	}

	return c.stateMessage()
}

func (c *Client) stateMessage() *ServerMessage {
	state := c.session.Snapshot()
	return &ServerMessage{Type: MsgState, ClientID: c.id, State: &state}
}

func errorMessage(err error) *ServerMessage {
	return &ServerMessage{Type: MsgError, Error: err.Error(), Hints: errors.GetAllHints(err)}
}
