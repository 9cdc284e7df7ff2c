package display

import (
	"io"

	"github.com/pterm/pterm"
	"github.com/teranos/formulary/errors"
)

// WriteTable renders rows under header as an aligned table
func WriteTable(w io.Writer, header []string, rows [][]string) error {
	data := pterm.TableData{header}
	data = append(data, rows...)

	out, err := pterm.DefaultTable.
		WithHasHeader().
		WithData(data).
		Srender()
	if err != nil {
		return errors.Wrap(err, "failed to render table")
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}

// Section returns a styled section heading
func Section(title string) string {
	return pterm.LightCyan(title)
}
