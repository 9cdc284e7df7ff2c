package server

import (
	"github.com/teranos/formulary/editor"
	"github.com/teranos/formulary/render"
	"github.com/teranos/formulary/sym"
)

// RenderRequest is the body of POST /api/render
type RenderRequest struct {
	Notation string `json:"notation"`
	Trace    bool   `json:"trace,omitempty"`
}

// RenderResponse carries the rendered notation and, on request, the rule trace
type RenderResponse struct {
	Notation string        `json:"notation"`
	Rendered string        `json:"rendered"`
	Steps    []render.Step `json:"steps,omitempty"`
}

// InsertRequest is the body of POST /api/insert. Positions are rune
// offsets; out of range values are clamped. Without End the token is
// inserted at Start.
type InsertRequest struct {
	Notation string `json:"notation"`
	Start    int    `json:"start"`
	End      *int   `json:"end,omitempty"`
	Token    string `json:"token" validate:"required"`
}

// InsertResponse is the spliced notation with the caret after the token
type InsertResponse struct {
	Notation string `json:"notation"`
	Caret    int    `json:"caret"`
	Rendered string `json:"rendered"`
}

// CategoryInfo describes one palette group
type CategoryInfo struct {
	ID    sym.Category `json:"id"`
	Title string       `json:"title"`
	Count int          `json:"count"`
}

// TemplateInfo is a template with its preview
type TemplateInfo struct {
	Name     string `json:"name"`
	Notation string `json:"notation"`
	Rendered string `json:"rendered"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	State   string `json:"state"`
	Version string `json:"version"`
	Clients int    `json:"clients"`
}

// ErrorResponse is the body of every non-2xx JSON reply
type ErrorResponse struct {
	Error     string   `json:"error"`
	Hints     []string `json:"hints,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// WebSocket message types
const (
	MsgSet           = "set"
	MsgInsert        = "insert"
	MsgSelect        = "select"
	MsgTemplate      = "template"
	MsgReset         = "reset"
	MsgTogglePreview = "toggle_preview"
	MsgPing          = "ping"

	MsgState = "state"
	MsgError = "error"
	MsgPong  = "pong"
)

// ClientMessage is a command sent by the browser over the WebSocket
type ClientMessage struct {
	Type     string `json:"type" validate:"required,oneof=set insert select template reset toggle_preview ping"`
	Notation string `json:"notation,omitempty"`
	Token    string `json:"token,omitempty" validate:"required_if=Type insert"`
	Name     string `json:"name,omitempty" validate:"required_if=Type template"`
	Start    *int   `json:"start,omitempty" validate:"required_if=Type select"`
	End      *int   `json:"end,omitempty"`
}

// ServerMessage is sent to the browser: the session state after every
// command, an error, or a pong
type ServerMessage struct {
	Type     string        `json:"type"`
	ClientID string        `json:"client_id,omitempty"`
	State    *editor.State `json:"state,omitempty"`
	Error    string        `json:"error,omitempty"`
	Hints    []string      `json:"hints,omitempty"`
}
