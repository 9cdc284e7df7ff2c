// Package export writes rendered notation out of the editor: as an SVG card
// or as plain text.
package export

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
	"github.com/teranos/formulary/render"
)

// ContentType is the media type of SVG documents
const ContentType = "image/svg+xml"

// Options controls the SVG envelope
type Options struct {
	Width      int
	Height     int
	FontFamily string
	FontSize   int
	X          int
	Y          int
	Fill       string
	FileName   string
}

// DefaultOptions returns the classic 400x100 card with 24px Times text
func DefaultOptions() Options {
	return Options{
		Width:      400,
		Height:     100,
		FontFamily: "Times, serif",
		FontSize:   24,
		X:          20,
		Y:          50,
		Fill:       "black",
		FileName:   "formula.svg",
	}
}

// FromConfig builds Options from the export section of am.toml
func FromConfig(cfg am.ExportConfig) Options {
	opts := DefaultOptions()
	opts.Width = cfg.Width
	opts.Height = cfg.Height
	opts.FontFamily = cfg.FontFamily
	opts.FontSize = cfg.FontSize
	opts.X = cfg.X
	opts.Y = cfg.Y
	if cfg.FileName != "" {
		opts.FileName = cfg.FileName
	}
	return opts
}

func (o Options) validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.NewInvalidRequestError("svg size must be positive, got %dx%d", o.Width, o.Height)
	}
	if o.FontSize <= 0 {
		return errors.NewInvalidRequestError("font size must be positive, got %d", o.FontSize)
	}
	if strings.TrimSpace(o.FontFamily) == "" {
		return errors.NewInvalidRequestError("font family is required")
	}
	return nil
}

type svgDocument struct {
	XMLName xml.Name `xml:"svg"`
	Xmlns   string   `xml:"xmlns,attr"`
	Width   int      `xml:"width,attr"`
	Height  int      `xml:"height,attr"`
	ViewBox string   `xml:"viewBox,attr"`
	Text    svgText  `xml:"text"`
}

type svgText struct {
	X          int    `xml:"x,attr"`
	Y          int    `xml:"y,attr"`
	FontFamily string `xml:"font-family,attr"`
	FontSize   int    `xml:"font-size,attr"`
	Fill       string `xml:"fill,attr"`
	Body       string `xml:",chardata"`
}

// SVG renders notation and writes it as a single <text> element inside an
// SVG document sized by opts. The rendered text is XML-escaped.
func SVG(w io.Writer, notation string, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	if opts.Fill == "" {
		opts.Fill = "black"
	}

	doc := svgDocument{
		Xmlns:   "http://www.w3.org/2000/svg",
		Width:   opts.Width,
		Height:  opts.Height,
		ViewBox: fmt.Sprintf("0 0 %d %d", opts.Width, opts.Height),
		Text: svgText{
			X:          opts.X,
			Y:          opts.Y,
			FontFamily: opts.FontFamily,
			FontSize:   opts.FontSize,
			Fill:       opts.Fill,
			Body:       render.Render(notation),
		},
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode svg")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "failed to flush svg")
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// SVGBytes is SVG into a fresh buffer
func SVGBytes(notation string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := SVG(&buf, notation, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSVGFile writes the SVG for notation to path. An empty path uses
// opts.FileName in the working directory. Returns the path written.
func WriteSVGFile(path, notation string, opts Options) (string, error) {
	if path == "" {
		path = opts.FileName
	}
	if path == "" {
		return "", errors.NewInvalidRequestError("no output file name")
	}

	data, err := SVGBytes(notation, opts)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, am.DefaultFilePermissions); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	logger.Infow("Wrote SVG", logger.FieldFile, path, logger.FieldSize, len(data))
	return path, nil
}

// Text writes the rendered notation followed by a newline
func Text(w io.Writer, notation string) error {
	_, err := io.WriteString(w, render.Render(notation)+"\n")
	return err
}
