// Package editor holds the notation a user is composing, together with the
// caret and selection a palette insertion acts on.
//
// A Session is the state the render engine deliberately does not own. It is
// not safe for concurrent use; give each client its own.
package editor

import (
	"unicode/utf8"

	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/render"
	"github.com/teranos/formulary/sym"
)

// State is a snapshot of a session, ready to be sent to a client.
type State struct {
	Notation    string `json:"notation"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	ShowPreview bool   `json:"show_preview"`
	Rendered    string `json:"rendered"`
}

// Session is an editable notation buffer with a rune-based selection.
// When Start == End the selection is a plain caret.
type Session struct {
	notation    string
	start, end  int
	showPreview bool
}

// New creates a session holding initial, with the caret at its end and the
// preview shown.
func New(initial string) *Session {
	n := utf8.RuneCountInString(initial)
	return &Session{notation: initial, start: n, end: n, showPreview: true}
}

// Notation returns the current notation string.
func (s *Session) Notation() string { return s.notation }

// Selection returns the current selection bounds.
func (s *Session) Selection() (start, end int) { return s.start, s.end }

// ShowPreview reports whether the preview is visible.
func (s *Session) ShowPreview() bool { return s.showPreview }

// SetNotation replaces the whole notation, as typing into the text box does,
// and moves the caret to the end.
func (s *Session) SetNotation(notation string) {
	s.notation = notation
	n := utf8.RuneCountInString(notation)
	s.start, s.end = n, n
}

// Select moves the selection. Out of range positions are clamped and a
// reversed range is normalised.
func (s *Session) Select(start, end int) {
	n := utf8.RuneCountInString(s.notation)
	start, end = clamp(start, n), clamp(end, n)
	if end < start {
		start, end = end, start
	}
	s.start, s.end = start, end
}

// Insert replaces the selection with token and places the caret after it.
func (s *Session) Insert(token string) {
	notation, caret := render.InsertRange(s.notation, s.start, s.end, token)
	s.notation = notation
	s.start, s.end = caret, caret
}

// InsertSymbol inserts the catalog token for a symbol.
func (s *Session) InsertSymbol(token string) error {
	e, ok := sym.Lookup(token)
	if !ok {
		return errors.WithHint(
			errors.NewNotFoundError("symbol %q", token),
			"run 'formulary symbols' to list the palette",
		)
	}
	s.Insert(e.Token)
	return nil
}

// LoadTemplate replaces the notation with a named template.
func (s *Session) LoadTemplate(name string) error {
	tmpl, ok := sym.LookupTemplate(name)
	if !ok {
		return errors.WithHint(
			errors.NewNotFoundError("template %q", name),
			"run 'formulary templates' to list known names",
		)
	}
	s.SetNotation(tmpl.Notation)
	return nil
}

// Reset clears the notation.
func (s *Session) Reset() {
	s.SetNotation("")
}

// TogglePreview flips preview visibility and returns the new value.
func (s *Session) TogglePreview() bool {
	s.showPreview = !s.showPreview
	return s.showPreview
}

// SetShowPreview sets preview visibility.
func (s *Session) SetShowPreview(show bool) {
	s.showPreview = show
}

// Preview returns the rendered notation, or "" when the preview is hidden
// or there is nothing to render.
func (s *Session) Preview() string {
	if !s.showPreview || s.notation == "" {
		return ""
	}
	return render.Render(s.notation)
}

// Snapshot captures the session state.
func (s *Session) Snapshot() State {
	return State{
		Notation:    s.notation,
		Start:       s.start,
		End:         s.end,
		ShowPreview: s.showPreview,
		Rendered:    s.Preview(),
	}
}

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
