package export

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/errors"
)

func TestSVGEnvelope(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, "E = mc^2", DefaultOptions()))

	var doc svgDocument
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "http://www.w3.org/2000/svg", doc.Xmlns)
	assert.Equal(t, 400, doc.Width)
	assert.Equal(t, 100, doc.Height)
	assert.Equal(t, "0 0 400 100", doc.ViewBox)
	assert.Equal(t, 20, doc.Text.X)
	assert.Equal(t, 50, doc.Text.Y)
	assert.Equal(t, "Times, serif", doc.Text.FontFamily)
	assert.Equal(t, 24, doc.Text.FontSize)
	assert.Equal(t, "black", doc.Text.Fill)
	assert.Equal(t, "E = mc⁺2", doc.Text.Body)
}

func TestSVGEscapesMarkup(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, `a < b & \frac{c}{d} > e`, DefaultOptions()))

	out := buf.String()
	assert.Contains(t, out, "a &lt; b &amp; (c)/(d) &gt; e")
	assert.NotContains(t, out, "a < b")

	var doc svgDocument
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "a < b & (c)/(d) > e", doc.Text.Body)
}

func TestSVGEmptyNotation(t *testing.T) {
	data, err := SVGBytes("", DefaultOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<svg"))
}

func TestSVGRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"negative height", func(o *Options) { o.Height = -1 }},
		{"zero font", func(o *Options) { o.FontSize = 0 }},
		{"blank family", func(o *Options) { o.FontFamily = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			err := SVG(&bytes.Buffer{}, "x", opts)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidRequestError(err))
		})
	}
}

func TestFromConfig(t *testing.T) {
	opts := FromConfig(am.ExportConfig{
		Width: 800, Height: 200, FontFamily: "serif", FontSize: 32, X: 10, Y: 120,
	})
	assert.Equal(t, 800, opts.Width)
	assert.Equal(t, 120, opts.Y)
	assert.Equal(t, "formula.svg", opts.FileName, "empty file name keeps the default")
	assert.Equal(t, "black", opts.Fill)
}

func TestWriteSVGFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pi.svg")

	written, err := WriteSVGFile(path, `\pi r^2`, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, path, written)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "π r⁺2")
}

func TestWriteSVGFileDefaultName(t *testing.T) {
	chdir(t, t.TempDir())

	written, err := WriteSVGFile("", "x", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "formula.svg", written)
	assert.FileExists(t, "formula.svg")
}

func TestWriteSVGFileError(t *testing.T) {
	_, err := WriteSVGFile(filepath.Join(t.TempDir(), "missing", "x.svg"), "x", DefaultOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write")
}

func TestText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, `\alpha + \beta`))
	assert.Equal(t, "α + β\n", buf.String())
}
