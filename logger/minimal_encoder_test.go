package logger

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	return ansiRegex.ReplaceAllString(str, "")
}

func encode(t *testing.T, enc zapcore.Encoder, ent zapcore.Entry, fields ...zapcore.Field) string {
	t.Helper()
	buf, err := enc.EncodeEntry(ent, fields)
	require.NoError(t, err)
	return stripANSI(buf.String())
}

func testEntry(level zapcore.Level, name, msg string) zapcore.Entry {
	return zapcore.Entry{
		Level:      level,
		Time:       time.Date(2026, 1, 2, 13, 4, 35, 0, time.UTC),
		LoggerName: name,
		Message:    msg,
	}
}

// The console encoder must never silently discard fields.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	tests := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String("notation", `\frac{a}{b}`), `notation=\frac{a}{b}`},
		{zap.String("rendered", "(a)/(b)"), "rendered=(a)/(b)"},
		{zap.Bool("show_preview", true), "show_preview=true"},
		{zap.Float64("renders_per_second", 0.5), "renders_per_second=0.5"},
		{zap.Int("caret", 7), "caret=7"},
		{zap.Int64("size", 9999999), "size=9999999"},
		{zap.Strings("origins", []string{"a", "b"}), "origins="},
		{zap.String("field.with.dots", "x"), "field.with.dots=x"},
		{zap.Error(errors.New("boom")), "error=boom"},
		{zap.Error(nil), ""},
		{zap.String("client_id", "c-123"), "c-123"},
		{zap.Int("duration_ms", 42), "42ms"},
	}

	var fields []zapcore.Field
	for _, tt := range tests {
		fields = append(fields, tt.field)
	}

	out := encode(t, newMinimalEncoder(), testEntry(zapcore.InfoLevel, "render", "Rendered"), fields...)
	for _, tt := range tests {
		if tt.mustFind != "" {
			assert.Contains(t, out, tt.mustFind)
		}
	}
}

func TestMinimalEncoderLayout(t *testing.T) {
	out := encode(t, newMinimalEncoder(), testEntry(zapcore.InfoLevel, "server.ws", "Client connected"))
	assert.Equal(t, "13:04:35  s.ws  Client connected\n", out)

	out = encode(t, newMinimalEncoder(), testEntry(zapcore.WarnLevel, "", "Slow render"))
	assert.Equal(t, "13:04:35  WARN  Slow render\n", out)

	out = encode(t, newMinimalEncoder(), testEntry(zapcore.ErrorLevel, "", "Failed"))
	assert.True(t, strings.HasPrefix(out, "13:04:35  ERROR  Failed"))
}

func TestMinimalEncoderKeepsContextFields(t *testing.T) {
	enc := newMinimalEncoder()
	enc.AddString("component", "export")

	clone := enc.Clone()
	clone.AddString("file", "formula.svg")

	out := encode(t, clone, testEntry(zapcore.InfoLevel, "", "Wrote SVG"), zap.Int("size", 312))
	assert.Contains(t, out, "size=312")
	assert.Contains(t, out, "component=export")
	assert.Contains(t, out, "file=formula.svg")
	assert.Less(t, strings.Index(out, "size="), strings.Index(out, "component="), "entry fields print before context")

	original := encode(t, enc, testEntry(zapcore.InfoLevel, "", "x"))
	assert.NotContains(t, original, "file=", "Clone must not share context with its parent")
}

func TestMinimalEncoderWithZap(t *testing.T) {
	var sink strings.Builder
	l := zap.New(zapcore.NewCore(newMinimalEncoder(), zapcore.AddSync(&sink), zapcore.InfoLevel))
	l.With(zap.String("request_id", "r-1")).Info("Served", zap.Int("status", 200))

	out := stripANSI(sink.String())
	assert.Contains(t, out, "status=200")
	assert.Contains(t, out, "r-1")
}

func TestAbbreviateName(t *testing.T) {
	assert.Equal(t, "s.ws", abbreviateName("server.ws"))
	assert.Equal(t, "render", abbreviateName("render"))
	assert.Equal(t, ".x", abbreviateName(".x"))
}
