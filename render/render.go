// Package render turns LaTeX-like notation into a readable text approximation.
//
// Rendering is a fixed sequence of text substitutions (see Rules). It is not a
// parser: braces are matched one level at a time, nothing is validated, and
// unknown commands pass through untouched. Render is pure and total, so it is
// safe to call from any number of goroutines.
//
// Rendering is not idempotent. Only ever render the original notation, never
// the output of a previous call.
package render

// Render returns the display approximation of notation.
func Render(notation string) string {
	s := notation
	for _, r := range table {
		s = r.Apply(s)
	}
	return s
}

// Step records one rule that changed the string during Trace.
type Step struct {
	Stage  Stage  `json:"stage"`
	Rule   string `json:"rule"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Trace renders notation like Render and also reports every rule that
// changed the intermediate string, in application order.
func Trace(notation string) (string, []Step) {
	var steps []Step
	s := notation
	for _, r := range table {
		next := r.Apply(s)
		if next != s {
			steps = append(steps, Step{Stage: r.Stage, Rule: r.Name, Before: s, After: next})
		}
		s = next
	}
	return s, steps
}
