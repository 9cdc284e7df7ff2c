package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/formulary/display"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/render"
	"github.com/teranos/formulary/sym"
)

// SymbolsCmd lists the symbol palette
var SymbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List the symbol palette",
	Long: `List every palette symbol with its notation token, rendered glyph and
button label, grouped by category.

Examples:
  formulary symbols
  formulary symbols --category operator
  formulary symbols --format yaml`,
	Args: cobra.NoArgs,
	RunE: runSymbols,
}

// TemplatesCmd lists the example formulas
var TemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List example formulas",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

// TemplateCmd prints one example formula and its rendering
var TemplateCmd = &cobra.Command{
	Use:   "template <name>",
	Short: "Show an example formula and its rendering",
	Long: `Show an example formula by name. Names are matched case-insensitively.

Examples:
  formulary template "Euler's identity"
  formulary template mass-energy equivalence`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTemplate,
}

var (
	symbolsCategory string
	symbolsFormat   string
	templatesFormat string
)

func init() {
	SymbolsCmd.Flags().StringVarP(&symbolsCategory, "category", "c", "", "Only list one category (greek, power, fraction, root, operator, symbol)")
	SymbolsCmd.Flags().StringVar(&symbolsFormat, "format", "table", "Output format: table, json, yaml, toml")
	TemplatesCmd.Flags().StringVar(&templatesFormat, "format", "table", "Output format: table, json, yaml, toml")
}

// outputFormat resolves --format, letting --json win
func outputFormat(cmd *cobra.Command, flag string) (display.Format, error) {
	if display.ShouldOutputJSON(cmd) {
		return display.FormatJSON, nil
	}
	return display.ParseFormat(flag)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd, symbolsFormat)
	if err != nil {
		return err
	}

	categories := sym.Categories()
	if symbolsCategory != "" {
		c, ok := sym.ParseCategory(symbolsCategory)
		if !ok {
			names := make([]string, 0, len(sym.AllCategories()))
			for _, c := range sym.AllCategories() {
				names = append(names, string(c))
			}
			return errors.WithHintf(
				errors.NewNotFoundError("category %q", symbolsCategory),
				"known categories: %s", strings.Join(names, ", "),
			)
		}
		categories = []sym.Category{c}
	}

	out := cmd.OutOrStdout()
	if format != display.FormatTable {
		var entries []sym.SymbolEntry
		for _, c := range categories {
			entries = append(entries, sym.ByCategory(c)...)
		}
		return display.Write(out, format, entries)
	}

	for i, c := range categories {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := writeSymbolTable(out, c); err != nil {
			return err
		}
	}
	return nil
}

func writeSymbolTable(w io.Writer, c sym.Category) error {
	fmt.Fprintln(w, display.Section(c.Title()))
	entries := sym.ByCategory(c)
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Token, e.Glyph, e.Label})
	}
	return display.WriteTable(w, []string{"TOKEN", "GLYPH", "LABEL"}, rows)
}

type templateResult struct {
	Name     string `json:"name" yaml:"name" toml:"name"`
	Notation string `json:"notation" yaml:"notation" toml:"notation"`
	Rendered string `json:"rendered" yaml:"rendered" toml:"rendered"`
}

func newTemplateResult(t sym.TemplateEntry) templateResult {
	return templateResult{Name: t.Name, Notation: t.Notation, Rendered: render.Render(t.Notation)}
}

func runTemplates(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd, templatesFormat)
	if err != nil {
		return err
	}

	templates := sym.Templates()
	results := make([]templateResult, 0, len(templates))
	for _, t := range templates {
		results = append(results, newTemplateResult(t))
	}

	out := cmd.OutOrStdout()
	if format != display.FormatTable {
		return display.Write(out, format, results)
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, r.Notation, r.Rendered})
	}
	return display.WriteTable(out, []string{"NAME", "NOTATION", "RENDERED"}, rows)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	name := strings.Join(args, " ")
	t, ok := sym.LookupTemplate(name)
	if !ok {
		return errors.WithHint(
			errors.NewNotFoundError("template %q", name),
			"run 'formulary templates' to list known names",
		)
	}

	result := newTemplateResult(t)
	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, result)
	}

	fmt.Fprintln(out, display.Section(result.Name))
	fmt.Fprintf(out, "  notation: %s\n", result.Notation)
	fmt.Fprintf(out, "  rendered: %s\n", result.Rendered)
	return nil
}
