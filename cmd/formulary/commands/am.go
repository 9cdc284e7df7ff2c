package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/formulary/am"
	"github.com/teranos/formulary/display"
	"github.com/teranos/formulary/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage formulary configuration",
	Long: `am - Manage formulary configuration ("I am")

Display and manage formulary configuration settings.

Configuration sources (in order of precedence):
1. Environment variables (FORMULARY_* prefix, e.g. FORMULARY_SERVER_PORT)
2. Project config (./am.toml, searched upward from the working directory)
3. User config (~/.formulary/am.toml)
4. System config (/etc/formulary/am.toml)
5. Default values

Examples:
  formulary am show                    # Show current configuration
  formulary am show --format json      # Show configuration in JSON format
  formulary am get export.width        # Get specific config value
  formulary am set export.width 640    # Persist a value to ~/.formulary/am.toml
  formulary am lint                    # Report unknown keys and bad values`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current formulary configuration merged from all sources",
	Args:  cobra.NoArgs,
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., export.width, server.port)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current formulary configuration is valid",
	Args:  cobra.NoArgs,
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and which files were checked.

Lists all configuration files in order of precedence, showing which exist,
followed by any FORMULARY_* environment overrides.`,
	Args: cobra.NoArgs,
	RunE: runAmWhere,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a configuration value",
	Long: `Write a configuration value to the user config file (or --file).

The value is converted to the key's type and the resulting configuration is
validated before anything is written. The previous file is kept as a
rotating .back1 to .back3 backup. List values are comma separated.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amLintCmd = &cobra.Command{
	Use:   "lint [file...]",
	Short: "Check config files for unknown keys and invalid values",
	Long: `Check configuration files for keys formulary does not recognise and for
values that fail validation. With no arguments every existing file in the
cascade is checked.`,
	RunE: runAmLint,
}

var (
	configFormat string
	amSetFile    string
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml, table")
	amSetCmd.Flags().StringVar(&amSetFile, "file", "", "Config file to write (default ~/.formulary/am.toml)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amLintCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	format, err := outputFormat(cmd, configFormat)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case display.FormatTable:
		keys := am.KnownKeys()
		rows := make([][]string, 0, len(keys))
		for _, key := range keys {
			rows = append(rows, []string{key, formatValue(am.Get(key))})
		}
		return display.WriteTable(out, []string{"KEY", "VALUE"}, rows)
	case display.FormatJSON:
		return display.WriteJSON(out, cfg)
	default:
		fmt.Fprintln(out, "# formulary configuration")
		return display.Write(out, format, cfg)
	}
}

// formatValue prints lists comma separated, the same form am set accepts
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case []interface{}:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := strings.ToLower(args[0])
	if !am.IsSet(key) {
		return errors.WithHint(
			errors.NewNotFoundError("configuration key %q", key),
			"run 'formulary am show --format table' to list keys",
		)
	}

	value := am.Get(key)
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), map[string]interface{}{key: value})
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	sources := am.Sources()
	out := cmd.OutOrStdout()

	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(out, sources)
	}

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	rows := [][]string{{"1", string(am.SourceDefault), "built-in", "-"}}
	for i, src := range sources {
		status := "missing"
		if src.Exists {
			status = "loaded"
		}
		rows = append(rows, []string{fmt.Sprint(i + 2), string(src.Source), src.Path, status})
	}

	env := environmentOverrides()
	envStatus := "none set"
	if len(env) > 0 {
		envStatus = strings.Join(env, ", ")
	}
	rows = append(rows, []string{fmt.Sprint(len(sources) + 2), string(am.SourceEnvironment), "FORMULARY_*", envStatus})

	return display.WriteTable(out, []string{"#", "SOURCE", "PATH", "STATUS"}, rows)
}

// environmentOverrides lists the FORMULARY_* variables that map to known keys
func environmentOverrides() []string {
	var names []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		rest, ok := strings.CutPrefix(name, "FORMULARY_")
		if !ok {
			continue
		}
		key := strings.ToLower(strings.Replace(rest, "_", ".", 1))
		if am.IsKnownKey(key) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func runAmSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	path := amSetFile
	var err error
	if path == "" {
		path = am.UserConfigPath()
		err = am.SetValue(key, value)
	} else {
		err = am.SetValueIn(path, key, value)
		am.Reset()
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s in %s\n", strings.ToLower(key), value, path)
	return nil
}

func runAmLint(cmd *cobra.Command, args []string) error {
	files := args
	if len(files) == 0 {
		for _, src := range am.Sources() {
			if src.Exists {
				files = append(files, src.Path)
			}
		}
	}

	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "No configuration files found; defaults are in use")
		return nil
	}

	total := 0
	for _, path := range files {
		issues, err := am.LintFile(path)
		if err != nil {
			return err
		}
		for _, issue := range issues {
			if issue.Key == "" {
				fmt.Fprintf(out, "%s: %s\n", path, issue.Message)
			} else {
				fmt.Fprintf(out, "%s: %s: %s\n", path, issue.Key, issue.Message)
			}
		}
		total += len(issues)
	}

	if total > 0 {
		return errors.Newf("%d issue(s) found in %d file(s)", total, len(files))
	}
	fmt.Fprintf(out, "✓ %d file(s) clean\n", len(files))
	return nil
}
