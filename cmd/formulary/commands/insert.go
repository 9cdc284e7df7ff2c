package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teranos/formulary/display"
	"github.com/teranos/formulary/render"
)

// InsertCmd splices a token into notation, the way a palette button does
var InsertCmd = &cobra.Command{
	Use:   "insert --caret N [--end M] <notation> <token>",
	Short: "Insert a token into notation at a caret",
	Long: `Insert a token into notation at a caret position, or replace the
selection [caret, end) when --end is given. Positions count characters, not
bytes, and are clamped to the notation.

Examples:
  formulary insert --caret 1 'x = ' '\pi'
  formulary insert --caret 0 --end 1 'a + b' '\alpha'`,
	Args: cobra.ExactArgs(2),
	RunE: runInsert,
}

var (
	insertCaret int
	insertEnd   int
)

func init() {
	InsertCmd.Flags().IntVar(&insertCaret, "caret", 0, "Caret position (characters from the start)")
	InsertCmd.Flags().IntVar(&insertEnd, "end", 0, "End of the selection to replace")
	_ = InsertCmd.MarkFlagRequired("caret")
}

type insertResult struct {
	Notation string `json:"notation"`
	Caret    int    `json:"caret"`
	Rendered string `json:"rendered"`
}

func runInsert(cmd *cobra.Command, args []string) error {
	notation, token := args[0], args[1]

	end := insertCaret
	if cmd.Flags().Changed("end") {
		end = insertEnd
	}
	updated, caret := render.InsertRange(notation, insertCaret, end, token)
	result := insertResult{Notation: updated, Caret: caret, Rendered: render.Render(updated)}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, result)
	}
	fmt.Fprintln(out, result.Notation)
	fmt.Fprintf(out, "caret: %d\n", result.Caret)
	fmt.Fprintf(out, "rendered: %s\n", result.Rendered)
	return nil
}
