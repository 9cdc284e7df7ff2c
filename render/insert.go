package render

import (
	"strings"
	"unicode/utf8"
)

// Insert splices token into notation at caret and returns the new notation
// together with the caret position just after the inserted token.
//
// Positions are counted in runes. A caret outside the notation is clamped
// to its nearest end before inserting.
func Insert(notation string, caret int, token string) (string, int) {
	return InsertRange(notation, caret, caret, token)
}

// InsertRange replaces the selection [start, end) with token, the way a text
// box does when a palette button is pressed with text selected. The returned
// caret sits right after the token. Reversed ranges are swapped.
func InsertRange(notation string, start, end int, token string) (string, int) {
	runes := []rune(notation)
	start = clamp(start, 0, len(runes))
	end = clamp(end, 0, len(runes))
	if end < start {
		start, end = end, start
	}

	var b strings.Builder
	b.Grow(len(notation) + len(token))
	b.WriteString(string(runes[:start]))
	b.WriteString(token)
	b.WriteString(string(runes[end:]))

	return b.String(), start + utf8.RuneCountInString(token)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
