package render

import (
	"regexp"
	"strings"
)

// Kind tags how a rule matches and rewrites the notation.
type Kind int

const (
	KindLiteral    Kind = iota // exact token, every non-overlapping occurrence
	KindBinary                 // command followed by two brace groups
	KindIndexed                // command followed by a bracket index and one brace group
	KindUnary                  // command followed by one brace group
	KindDigitAffix             // caret or underscore followed by one ASCII digit
	KindBraceStrip             // innermost {content} flattened until none remain
	KindErase                  // marker deleted
)

var kindNames = map[Kind]string{
	KindLiteral:    "literal",
	KindBinary:     "binary",
	KindIndexed:    "indexed",
	KindUnary:      "unary",
	KindDigitAffix: "digit-affix",
	KindBraceStrip: "brace-strip",
	KindErase:      "erase",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// Stage names the pipeline step a rule belongs to. Stages run in the order
// of the table; within a stage, rules run in declaration order.
type Stage string

const (
	StageGreek     Stage = "greek"
	StageOperator  Stage = "operator"
	StageBigOp     Stage = "big-operator"
	StageFraction  Stage = "fraction"
	StageRoot      Stage = "root"
	StageAffix     Stage = "affix"
	StageBrace     Stage = "brace"
	StageLineBreak Stage = "line-break"
)

// Rule is one entry of the substitution table.
//
// For literal and erase rules Pattern is the token itself. For every other
// kind Pattern is a regular expression and Replacement a regexp template.
type Rule struct {
	Name        string `json:"name"`
	Stage       Stage  `json:"stage"`
	Kind        Kind   `json:"kind"`
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`

	re *regexp.Regexp
}

// Apply runs the rule once over s.
func (r Rule) Apply(s string) string {
	switch r.Kind {
	case KindLiteral, KindErase:
		return strings.ReplaceAll(s, r.Pattern, r.Replacement)
	case KindBraceStrip:
		// Each pass removes at least one brace pair, so this terminates.
		for {
			next := r.re.ReplaceAllString(s, r.Replacement)
			if next == s {
				return s
			}
			s = next
		}
	default:
		return r.re.ReplaceAllString(s, r.Replacement)
	}
}

func literal(stage Stage, token, glyph string) Rule {
	return Rule{Name: token, Stage: stage, Kind: KindLiteral, Pattern: token, Replacement: glyph}
}

func pattern(stage Stage, kind Kind, name, expr, repl string) Rule {
	return Rule{Name: name, Stage: stage, Kind: kind, Pattern: expr, Replacement: repl, re: regexp.MustCompile(expr)}
}

// table is the ordered rule set. Later rules assume earlier ones already
// fired: \infty must be gone before \int is replaced, and commands must be
// consumed before brace stripping flattens their arguments.
var table = []Rule{
	literal(StageGreek, `\alpha`, "α"),
	literal(StageGreek, `\beta`, "β"),
	literal(StageGreek, `\gamma`, "γ"),
	literal(StageGreek, `\delta`, "δ"),
	literal(StageGreek, `\epsilon`, "ε"),
	literal(StageGreek, `\theta`, "θ"),
	literal(StageGreek, `\lambda`, "λ"),
	literal(StageGreek, `\mu`, "μ"),
	literal(StageGreek, `\pi`, "π"),
	literal(StageGreek, `\sigma`, "σ"),
	literal(StageGreek, `\phi`, "φ"),
	literal(StageGreek, `\omega`, "ω"),
	literal(StageGreek, `\Gamma`, "Γ"),
	literal(StageGreek, `\Delta`, "Δ"),
	literal(StageGreek, `\Theta`, "Θ"),
	literal(StageGreek, `\Lambda`, "Λ"),
	literal(StageGreek, `\Pi`, "Π"),
	literal(StageGreek, `\Sigma`, "Σ"),
	literal(StageGreek, `\Phi`, "Φ"),
	literal(StageGreek, `\Omega`, "Ω"),

	literal(StageOperator, `\infty`, "∞"),
	literal(StageOperator, `\pm`, "±"),
	literal(StageOperator, `\times`, "×"),
	literal(StageOperator, `\div`, "÷"),
	literal(StageOperator, `\leq`, "≤"),
	literal(StageOperator, `\geq`, "≥"),
	literal(StageOperator, `\neq`, "≠"),
	literal(StageOperator, `\approx`, "≈"),
	literal(StageOperator, `\partial`, "∂"),
	literal(StageOperator, `\to`, "→"),
	literal(StageOperator, `\cdot`, "·"),

	literal(StageBigOp, `\sum`, "∑"),
	literal(StageBigOp, `\int`, "∫"),
	literal(StageBigOp, `\lim`, "lim"),

	pattern(StageFraction, KindBinary, "frac", `\\frac\{([^}]+)\}\{([^}]+)\}`, "(${1})/(${2})"),

	pattern(StageRoot, KindIndexed, "nth-root", `\\sqrt\[([^\]]+)\]\{([^}]+)\}`, "${1}√(${2})"),
	pattern(StageRoot, KindUnary, "sqrt", `\\sqrt\{([^}]+)\}`, "√(${1})"),

	pattern(StageAffix, KindDigitAffix, "superscript", `\^([0-9])`, SuperscriptMarker+"${1}"),
	pattern(StageAffix, KindDigitAffix, "subscript", `_([0-9])`, SubscriptMarker+"${1}"),

	pattern(StageBrace, KindBraceStrip, "braces", `\{([^{}]+)\}`, "${1}"),

	{Name: "line-break", Stage: StageLineBreak, Kind: KindErase, Pattern: `\\`, Replacement: ""},
}

// Markers placed in front of a single-digit exponent or subscript.
const (
	SuperscriptMarker = "⁺"
	SubscriptMarker   = "₊"
)

// Rules returns a copy of the ordered rule table.
func Rules() []Rule {
	return append([]Rule(nil), table...)
}
