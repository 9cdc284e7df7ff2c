// Package sym defines the canonical notation symbols and formula templates
// offered by the formulary palette.
//
// The catalog is compiled in: it can never be empty, malformed or partially
// loaded. Every accessor returns a fresh copy, so callers may keep or modify
// the returned slices without affecting other callers.
package sym

import "strings"

// Category groups related symbols for display.
type Category string

const (
	CategoryGreek    Category = "greek"
	CategoryPower    Category = "power"
	CategoryFraction Category = "fraction"
	CategoryRoot     Category = "root"
	CategoryOperator Category = "operator"
	CategorySymbol   Category = "symbol"
)

// allCategories is the fixed enumeration, in palette order.
var allCategories = []Category{
	CategoryGreek,
	CategoryPower,
	CategoryFraction,
	CategoryRoot,
	CategoryOperator,
	CategorySymbol,
}

var categoryTitles = map[Category]string{
	CategoryGreek:    "Greek letters",
	CategoryPower:    "Powers and subscripts",
	CategoryFraction: "Fractions",
	CategoryRoot:     "Roots",
	CategoryOperator: "Operators",
	CategorySymbol:   "Symbols",
}

// Title returns the palette heading for a category.
func (c Category) Title() string {
	if t, ok := categoryTitles[c]; ok {
		return t
	}
	return string(c)
}

// Valid reports whether c is part of the fixed enumeration.
func (c Category) Valid() bool {
	_, ok := categoryTitles[c]
	return ok
}

// ParseCategory converts a user-supplied name into a Category.
func ParseCategory(name string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(name)))
	return c, c.Valid()
}

// AllCategories returns the fixed category enumeration.
func AllCategories() []Category {
	return append([]Category(nil), allCategories...)
}

// SymbolEntry binds a notation token to its rendered glyph.
//
// Glyph is exactly what the render engine produces for Token on its own.
// Label is the face shown on the palette button, which may differ (the
// palette shows "x²" for "^2").
type SymbolEntry struct {
	Token    string   `json:"token" yaml:"token" toml:"token"`
	Glyph    string   `json:"glyph" yaml:"glyph" toml:"glyph"`
	Label    string   `json:"label" yaml:"label" toml:"label"`
	Category Category `json:"category" yaml:"category" toml:"category"`
}

// TemplateEntry is a named example formula offered for quick insertion.
type TemplateEntry struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Notation string `json:"notation" yaml:"notation" toml:"notation"`
}

// registry is the canonical symbol listing. Order is the palette order.
var registry = []SymbolEntry{
	{`\alpha`, "α", "α", CategoryGreek},
	{`\beta`, "β", "β", CategoryGreek},
	{`\gamma`, "γ", "γ", CategoryGreek},
	{`\delta`, "δ", "δ", CategoryGreek},
	{`\epsilon`, "ε", "ε", CategoryGreek},
	{`\theta`, "θ", "θ", CategoryGreek},
	{`\lambda`, "λ", "λ", CategoryGreek},
	{`\mu`, "μ", "μ", CategoryGreek},
	{`\pi`, "π", "π", CategoryGreek},
	{`\sigma`, "σ", "σ", CategoryGreek},
	{`\phi`, "φ", "φ", CategoryGreek},
	{`\omega`, "ω", "ω", CategoryGreek},
	{`\Gamma`, "Γ", "Γ", CategoryGreek},
	{`\Delta`, "Δ", "Δ", CategoryGreek},
	{`\Theta`, "Θ", "Θ", CategoryGreek},
	{`\Lambda`, "Λ", "Λ", CategoryGreek},
	{`\Pi`, "Π", "Π", CategoryGreek},
	{`\Sigma`, "Σ", "Σ", CategoryGreek},
	{`\Phi`, "Φ", "Φ", CategoryGreek},
	{`\Omega`, "Ω", "Ω", CategoryGreek},

	{`^2`, "⁺2", "x²", CategoryPower},
	{`^3`, "⁺3", "x³", CategoryPower},
	{`^{-1}`, "^-1", "x⁻¹", CategoryPower},
	{`_{0}`, "_0", "x₀", CategoryPower},

	{`\frac{a}{b}`, "(a)/(b)", "a/b", CategoryFraction},

	{`\sqrt{x}`, "√(x)", "√x", CategoryRoot},
	{`\sqrt[n]{x}`, "n√(x)", "ⁿ√x", CategoryRoot},

	{`\sum_{i=1}^{n}`, "∑_i=1^n", "∑", CategoryOperator},
	{`\int_{a}^{b}`, "∫_a^b", "∫", CategoryOperator},
	{`\lim_{x \to 0}`, "lim_x → 0", "lim", CategoryOperator},
	{`\partial`, "∂", "∂", CategoryOperator},

	{`\infty`, "∞", "∞", CategorySymbol},
	{`\pm`, "±", "±", CategorySymbol},
	{`\times`, "×", "×", CategorySymbol},
	{`\div`, "÷", "÷", CategorySymbol},
	{`\leq`, "≤", "≤", CategorySymbol},
	{`\geq`, "≥", "≥", CategorySymbol},
	{`\neq`, "≠", "≠", CategorySymbol},
	{`\approx`, "≈", "≈", CategorySymbol},
	{`\to`, "→", "→", CategorySymbol},
	{`\cdot`, "·", "·", CategorySymbol},
}

// templates is the example formula list, in declaration order.
var templates = []TemplateEntry{
	{"Quadratic equation", `ax^2 + bx + c = 0`},
	{"Quadratic formula", `x = \frac{-b \pm \sqrt{b^2 - 4ac}}{2a}`},
	{"Pythagorean theorem", `a^2 + b^2 = c^2`},
	{"Mass-energy equivalence", `E = mc^2`},
	{"Euler's identity", `e^{i\pi} + 1 = 0`},
	{"Definition of the derivative", `f'(x) = \lim_{h \to 0} \frac{f(x+h) - f(x)}{h}`},
	{"Fundamental theorem of calculus", `\int_{a}^{b} f(x)dx = F(b) - F(a)`},
	{"Standard deviation", `\sigma = \sqrt{\frac{1}{N}\sum_{i=1}^{N}(x_i - \mu)^2}`},
}

// Lookup tables built from the registry at init time.
var (
	byToken    map[string]int
	byCategory map[Category][]SymbolEntry
	categories []Category
	byTemplate map[string]int
)

func init() {
	byToken = make(map[string]int, len(registry))
	byCategory = make(map[Category][]SymbolEntry, len(allCategories))
	for i, e := range registry {
		byToken[e.Token] = i
		if _, seen := byCategory[e.Category]; !seen {
			categories = append(categories, e.Category)
		}
		byCategory[e.Category] = append(byCategory[e.Category], e)
	}

	byTemplate = make(map[string]int, len(templates))
	for i, t := range templates {
		byTemplate[templateKey(t.Name)] = i
	}
}

func templateKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Symbols returns the full catalog in palette order.
func Symbols() []SymbolEntry {
	return append([]SymbolEntry(nil), registry...)
}

// Categories returns the categories present in the catalog, in the order
// they first appear in Symbols.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ByCategory returns the symbols of one category in palette order.
// Unknown categories yield an empty slice.
func ByCategory(c Category) []SymbolEntry {
	return append([]SymbolEntry(nil), byCategory[c]...)
}

// Templates returns the example formulas in declaration order.
func Templates() []TemplateEntry {
	return append([]TemplateEntry(nil), templates...)
}

// Lookup returns the catalog entry for a notation token.
func Lookup(token string) (SymbolEntry, bool) {
	i, ok := byToken[token]
	if !ok {
		return SymbolEntry{}, false
	}
	return registry[i], true
}

// LookupTemplate finds a template by name, ignoring case and surrounding space.
func LookupTemplate(name string) (TemplateEntry, bool) {
	i, ok := byTemplate[templateKey(name)]
	if !ok {
		return TemplateEntry{}, false
	}
	return templates[i], true
}
