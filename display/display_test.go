package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/formulary/errors"
)

type entry struct {
	Token string `json:"token" yaml:"token" toml:"token"`
	Glyph string `json:"glyph" yaml:"glyph" toml:"glyph"`
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" YAML ")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestWriteJSONCompactWhenPiped(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, entry{Token: `\pi`, Glyph: "π"}))
	assert.Equal(t, `{"token":"\\pi","glyph":"π"}`+"\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatYAML, []entry{{Token: `\pi`, Glyph: "π"}}))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "- token: "))
	assert.Contains(t, out, "  glyph: π\n")
}

func TestWriteTOMLWrapsSlices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTOML, []entry{{Token: "a", Glyph: "b"}}))
	out := buf.String()
	assert.Contains(t, out, "entries")
	assert.Contains(t, out, "token = 'a'")
}

func TestWriteTOMLTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTOML, entry{Token: "a", Glyph: "b"}))
	assert.Contains(t, buf.String(), "glyph = 'b'")
	assert.NotContains(t, buf.String(), "entries")
}

func TestWriteRejectsTable(t *testing.T) {
	err := Write(&bytes.Buffer{}, FormatTable, entry{})
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []string{"Token", "Glyph"}, [][]string{{`\alpha`, "α"}}))
	out := buf.String()
	assert.Contains(t, out, "Token")
	assert.Contains(t, out, `\alpha`)
	assert.Contains(t, out, "α")
}

func TestShouldOutputJSON(t *testing.T) {
	root := &cobra.Command{Use: "formulary"}
	root.PersistentFlags().Bool("json", false, "")
	child := &cobra.Command{Use: "render"}
	root.AddCommand(child)

	assert.False(t, ShouldOutputJSON(nil))
	assert.False(t, ShouldOutputJSON(child))

	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))
}

func TestIsTerminalNonFile(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
