package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/export"
)

// ExportCmd groups the export formats
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export rendered notation",
	Long: `Export rendered notation as an SVG image or plain text.

SVG size and font come from the [export] section of am.toml and can be
overridden per run.

Examples:
  formulary export svg 'E = mc^2'                  # writes formula.svg
  formulary export svg -o area.svg 'A = \pi r^2'
  formulary export svg -o - '\sqrt{2}' > root.svg
  formulary export text '\alpha + \beta'`,
}

var exportSVGCmd = &cobra.Command{
	Use:   "svg [-o file] <notation|->",
	Short: "Export rendered notation as SVG",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExportSVG,
}

var exportTextCmd = &cobra.Command{
	Use:   "text <notation|->",
	Short: "Export rendered notation as plain text",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExportText,
}

var (
	exportOutput   string
	exportWidth    int
	exportHeight   int
	exportFontSize int
)

func init() {
	exportSVGCmd.Flags().StringVarP(&exportOutput, "output", "o", "", `Output file ("-" for stdout, default from export.file_name)`)
	exportSVGCmd.Flags().IntVar(&exportWidth, "width", 0, "Override export.width")
	exportSVGCmd.Flags().IntVar(&exportHeight, "height", 0, "Override export.height")
	exportSVGCmd.Flags().IntVar(&exportFontSize, "font-size", 0, "Override export.font_size")

	ExportCmd.AddCommand(exportSVGCmd)
	ExportCmd.AddCommand(exportTextCmd)
}

// exportOptions builds SVG options from configuration plus flag overrides
func exportOptions(cmd *cobra.Command) (export.Options, error) {
	cfg, err := am.Load()
	if err != nil {
		return export.Options{}, errors.Wrap(err, "failed to load config")
	}
	opts := export.FromConfig(cfg.Export)

	flags := cmd.Flags()
	if flags.Changed("width") {
		opts.Width = exportWidth
	}
	if flags.Changed("height") {
		opts.Height = exportHeight
	}
	if flags.Changed("font-size") {
		opts.FontSize = exportFontSize
	}
	return opts, nil
}

func runExportSVG(cmd *cobra.Command, args []string) error {
	notation, err := readNotation(cmd, args)
	if err != nil {
		return err
	}
	opts, err := exportOptions(cmd)
	if err != nil {
		return err
	}

	if exportOutput == "-" {
		return export.SVG(cmd.OutOrStdout(), notation, opts)
	}

	path, err := export.WriteSVGFile(exportOutput, notation, opts)
	if err != nil {
		return errors.Wrap(err, "failed to export formula")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
	return nil
}

func runExportText(cmd *cobra.Command, args []string) error {
	notation, err := readNotation(cmd, args)
	if err != nil {
		return err
	}
	return export.Text(cmd.OutOrStdout(), notation)
}
