package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one console color theme
type palette struct {
	fg         string
	time       string
	id         string
	number     string
	key        string
	components []string // rotated by component name hash
	warn       string
	warnBg     string
	err        string
	errBg      string
}

var themes = map[string]palette{
	// Everforest Dark: natural forest greens
	"everforest": {
		fg:         "\x1b[38;5;223m", // Soft beige (#d3c6aa)
		time:       "\x1b[38;5;107m", // Mid green (#83c092)
		id:         "\x1b[38;5;109m", // Blue-green (#7fbbb3)
		number:     "\x1b[38;5;108m", // Bright green (#a7c080)
		key:        "\x1b[38;5;65m",  // Deep green
		components: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
		warn:       "\x1b[38;5;179m", // Soft yellow (#dbbc7f)
		warnBg:     "\x1b[48;5;58m",
		err:        "\x1b[38;5;167m", // Warm red (#e67e80)
		errBg:      "\x1b[48;5;52m",
	},
	// Gruvbox Dark: warm, muted
	"gruvbox": {
		fg:         "\x1b[38;5;223m", // Soft cream (#ebdbb2)
		time:       "\x1b[38;5;108m", // Aqua (#8ec07c)
		id:         "\x1b[38;5;109m", // Blue (#83a598)
		number:     "\x1b[38;5;175m", // Purple (#d3869b)
		key:        "\x1b[38;5;246m", // Gray
		components: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
		warn:       "\x1b[38;5;214m",
		warnBg:     "\x1b[48;5;58m",
		err:        "\x1b[38;5;167m",
		errBg:      "\x1b[48;5;88m",
	},
}

var (
	themeMu      sync.RWMutex
	currentTheme = "everforest"
)

// SetTheme configures the color scheme for console log output. Unknown
// themes are ignored.
func SetTheme(theme string) {
	if _, ok := themes[theme]; !ok {
		return
	}
	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()
}

// Theme returns the active console theme name
func Theme() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

func activePalette() palette {
	return themes[Theme()]
}

func (p palette) component(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	return p.components[hash%len(p.components)]
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  s.ws  Client connected  9f1c…  remote=127.0.0.1:52289"
//
// Context fields added with Logger.With are collected in the embedded map
// encoder and printed after the entry's own fields.
type minimalEncoder struct {
	*zapcore.MapObjectEncoder
	pool buffer.Pool
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		pool:             buffer.NewPool(),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	clone := newMinimalEncoder()
	for k, v := range enc.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := activePalette()
	final := enc.pool.Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown for WARN and above
	if lvl := levelColorString(p, ent.Level); lvl != "" {
		final.AppendString("  ")
		final.AppendString(lvl)
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(p.component(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(p.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	if values := formatFields(p, fields, enc.Fields); values != "" {
		final.AppendString("  ")
		final.AppendString(values)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(p palette, level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel, zapcore.InfoLevel:
		return ""
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	default:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	}
}

// abbreviateName shortens component names: server.ws -> s.ws
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// formatFields renders every field. IDs and durations get compact special
// formatting; everything else is printed as key=value. No field is dropped.
func formatFields(p palette, fields []zapcore.Field, context map[string]interface{}) string {
	entry := zapcore.NewMapObjectEncoder()
	var order []string
	for _, f := range fields {
		if f.Type == zapcore.SkipType {
			continue
		}
		f.AddTo(entry)
		order = append(order, f.Key)
	}

	var ctxKeys []string
	for k := range context {
		if _, dup := entry.Fields[k]; !dup {
			ctxKeys = append(ctxKeys, k)
		}
	}
	sort.Strings(ctxKeys)

	var values []string
	emit := func(key string, v interface{}) {
		switch key {
		case FieldClientID, FieldRequestID:
			values = append(values, p.id+fmt.Sprint(v)+colorReset)
		case FieldDurationMS:
			values = append(values, p.number+fmt.Sprint(v)+colorReset+"ms")
		default:
			values = append(values, p.key+key+"="+colorReset+fmt.Sprint(v))
		}
	}

	seen := make(map[string]bool, len(order))
	for _, k := range order {
		if seen[k] {
			continue
		}
		seen[k] = true
		if v, ok := entry.Fields[k]; ok {
			emit(k, v)
		}
	}
	for _, k := range ctxKeys {
		emit(k, context[k])
	}

	return strings.Join(values, " ")
}
