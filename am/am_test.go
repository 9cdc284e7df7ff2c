package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/internal/watch"
)

// isolate points the cascade at an empty home and working directory
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	chdir(t, dir)
	Reset()
	t.Cleanup(Reset)
	return dir
}

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, "E = mc^2", cfg.Editor.DefaultNotation)
	assert.True(t, cfg.Editor.ShowPreview)
	assert.Equal(t, 400, cfg.Export.Width)
	assert.Equal(t, 100, cfg.Export.Height)
	assert.Equal(t, "Times, serif", cfg.Export.FontFamily)
	assert.Equal(t, 24, cfg.Export.FontSize)
	assert.Equal(t, 20, cfg.Export.X)
	assert.Equal(t, 50, cfg.Export.Y)
	assert.Equal(t, "formula.svg", cfg.Export.FileName)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost")
	assert.Equal(t, 4096, cfg.Server.MaxNotationBytes)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(*Config) {}, ""},
		{"zero width", func(c *Config) { c.Export.Width = 0 }, "export.width"},
		{"negative font size", func(c *Config) { c.Export.FontSize = -1 }, "export.font_size"},
		{"empty font family", func(c *Config) { c.Export.FontFamily = "" }, "export.font_family"},
		{"baseline below canvas", func(c *Config) { c.Export.Y = 101 }, "export.y"},
		{"baseline on bottom edge", func(c *Config) { c.Export.Y = 100 }, ""},
		{"anchor past right edge", func(c *Config) { c.Export.X = 400 }, "export.x"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero burst", func(c *Config) { c.Server.RenderBurst = 0 }, "server.render_burst"},
		{"unknown theme", func(c *Config) { c.Server.LogTheme = "solarized" }, "server.log_theme"},
		{"blank origin", func(c *Config) { c.Server.AllowedOrigins = []string{" "} }, "server.allowed_origins[0]"},
		{"no origins", func(c *Config) { c.Server.AllowedOrigins = nil }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("[export]\nwidth = 800\nfont_family = \"serif\"\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Export.Width)
	assert.Equal(t, "serif", cfg.Export.FontFamily)
	assert.Equal(t, 100, cfg.Export.Height, "unset keys keep defaults")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_Cascade(t *testing.T) {
	home := isolate(t)

	userDir := filepath.Join(home, configDirName)
	require.NoError(t, os.MkdirAll(userDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(userDir, configFileName),
		[]byte("[export]\nwidth = 500\nheight = 200\n"), 0644))

	// Project file overrides the user file
	require.NoError(t, os.WriteFile(filepath.Join(home, configFileName),
		[]byte("[export]\nwidth = 600\n"), 0644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Export.Width)
	assert.Equal(t, 200, cfg.Export.Height)

	cached, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, cached, "Load caches until Reset")
}

func TestLoad_EnvironmentWins(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, configFileName),
		[]byte("[server]\nport = 9000\n"), 0644))
	t.Setenv("FORMULARY_SERVER_PORT", "9100")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, 9100, GetServerPort())
}

func TestSources(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, configFileName), []byte(""), 0644))

	sources := Sources()
	require.Len(t, sources, 3)
	assert.Equal(t, SourceSystem, sources[0].Source)
	assert.Equal(t, SourceUser, sources[1].Source)
	assert.False(t, sources[1].Exists)
	assert.Equal(t, SourceProject, sources[2].Source)
	assert.True(t, sources[2].Exists)
}

func TestSetValueIn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "am.toml")

	require.NoError(t, SetValueIn(path, "export.width", "640"))
	require.NoError(t, SetValueIn(path, "Editor.Show_Preview", "false"))
	require.NoError(t, SetValueIn(path, "server.allowed_origins", "http://a.test, http://b.test"))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Export.Width)
	assert.False(t, cfg.Editor.ShowPreview)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestSetValueIn_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")

	err := SetValueIn(path, "export.colour", "red")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
	assert.NotEmpty(t, errors.GetAllHints(err))

	err = SetValueIn(path, "export.width", "wide")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	err = SetValueIn(path, "export.width", "0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "rejected values never touch the file")
}

func TestSetValueIn_RotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")

	for _, w := range []string{"401", "402", "403", "404", "405"} {
		require.NoError(t, SetValueIn(path, "export.width", w))
	}

	for i, want := range []int{404, 403, 402} {
		cfg, err := LoadFromFile(path + ".back" + string(rune('1'+i)))
		require.NoError(t, err)
		assert.Equal(t, want, cfg.Export.Width)
	}
	_, err := os.Stat(path + ".back4")
	assert.True(t, os.IsNotExist(err))
}

func TestKnownKeys(t *testing.T) {
	keys := KnownKeys()
	assert.Contains(t, keys, "export.font_family")
	assert.Contains(t, keys, "server.max_notation_bytes")
	assert.True(t, IsKnownKey("editor.default_notation"))
	assert.False(t, IsKnownKey("editor"))
}

func TestLintFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[export]
width = 300
colour = "red"

[database]
path = "x.db"
`), 0644))

	issues, err := LintFile(path)
	require.NoError(t, err)

	var keys []string
	for _, is := range issues {
		keys = append(keys, is.Key)
	}
	assert.Contains(t, keys, "export.colour")
	assert.Contains(t, keys, "database.path")
}

func TestLintFile_ValidationIssue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("[export]\ny = 500\n"), 0644))

	issues, err := LintFile(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "export.y")
}

func TestLintFile_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	require.NoError(t, os.WriteFile(path, []byte("[export\n"), 0644))

	_, err := LintFile(path)
	assert.Error(t, err)
}

func TestConfigWatcherReloads(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, configFileName)
	require.NoError(t, os.WriteFile(path, []byte("[export]\nwidth = 500\n"), 0644))

	cw, err := NewConfigWatcher(path, watch.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	defer cw.Stop()

	widths := make(chan int, 4)
	cw.OnReload(func(c *Config) error {
		widths <- c.Export.Width
		return nil
	})

	require.NoError(t, os.WriteFile(path, []byte("[export]\nwidth = 700\n"), 0644))

	select {
	case w := <-widths:
		assert.Equal(t, 700, w)
	case <-time.After(3 * time.Second):
		t.Fatal("expected reload callback")
	}
}
