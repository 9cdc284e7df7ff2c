package am

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Editor defaults
	v.SetDefault("editor.default_notation", "E = mc^2")
	v.SetDefault("editor.show_preview", true)

	// Export defaults match the classic 400x100 preview card
	v.SetDefault("export.width", 400)
	v.SetDefault("export.height", 100)
	v.SetDefault("export.font_family", "Times, serif")
	v.SetDefault("export.font_size", 24)
	v.SetDefault("export.x", 20)
	v.SetDefault("export.y", 50)
	v.SetDefault("export.file_name", "formula.svg")

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.max_notation_bytes", 4096)
	v.SetDefault("server.renders_per_second", 20.0)
	v.SetDefault("server.render_burst", 40)
	v.SetDefault("server.log_theme", "everforest")
}

// GetServerPort returns the configured server port, or the default when
// configuration cannot be loaded
func GetServerPort() int {
	cfg, err := Load()
	if err != nil || cfg.Server.Port <= 0 {
		return DefaultServerPort
	}
	return cfg.Server.Port
}
