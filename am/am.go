// Package am loads and persists formulary configuration ("I am").
//
// Settings cascade from built-in defaults through system, user and project
// TOML files to FORMULARY_* environment variables.
package am

// Config represents the formulary configuration
type Config struct {
	Editor EditorConfig `mapstructure:"editor" toml:"editor" yaml:"editor" json:"editor"`
	Export ExportConfig `mapstructure:"export" toml:"export" yaml:"export" json:"export"`
	Server ServerConfig `mapstructure:"server" toml:"server" yaml:"server" json:"server"`
}

// EditorConfig configures new editing sessions
type EditorConfig struct {
	DefaultNotation string `mapstructure:"default_notation" toml:"default_notation" yaml:"default_notation" json:"default_notation"`
	ShowPreview     bool   `mapstructure:"show_preview" toml:"show_preview" yaml:"show_preview" json:"show_preview"`
}

// ExportConfig configures the SVG envelope a rendered formula is written into
type ExportConfig struct {
	Width      int    `mapstructure:"width" toml:"width" yaml:"width" json:"width" validate:"gt=0"`
	Height     int    `mapstructure:"height" toml:"height" yaml:"height" json:"height" validate:"gt=0"`
	FontFamily string `mapstructure:"font_family" toml:"font_family" yaml:"font_family" json:"font_family" validate:"required"`
	FontSize   int    `mapstructure:"font_size" toml:"font_size" yaml:"font_size" json:"font_size" validate:"gt=0"`
	X          int    `mapstructure:"x" toml:"x" yaml:"x" json:"x" validate:"gte=0"`                       // text anchor
	Y          int    `mapstructure:"y" toml:"y" yaml:"y" json:"y" validate:"gte=0"`                       // text baseline
	FileName   string `mapstructure:"file_name" toml:"file_name" yaml:"file_name" json:"file_name" validate:"required"` // download name
}

// ServerConfig configures the live preview server
type ServerConfig struct {
	Port             int      `mapstructure:"port" toml:"port" yaml:"port" json:"port" validate:"gt=0,lt=65536"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" toml:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	MaxNotationBytes int      `mapstructure:"max_notation_bytes" toml:"max_notation_bytes" yaml:"max_notation_bytes" json:"max_notation_bytes" validate:"gt=0"`
	RendersPerSecond float64  `mapstructure:"renders_per_second" toml:"renders_per_second" yaml:"renders_per_second" json:"renders_per_second" validate:"gt=0"`
	RenderBurst      int      `mapstructure:"render_burst" toml:"render_burst" yaml:"render_burst" json:"render_burst" validate:"gt=0"`
	LogTheme         string   `mapstructure:"log_theme" toml:"log_theme" yaml:"log_theme" json:"log_theme" validate:"oneof=everforest gruvbox"`
}

// Server port constants
const (
	DefaultServerPort  = 8790
	FallbackServerPort = 18790
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Config file locations
const (
	configDirName  = ".formulary"
	configFileName = "am.toml"
	systemConfig   = "/etc/formulary/am.toml"
	envPrefix      = "FORMULARY"
)
