package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
)

const backupCount = 3

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	oldest := configPath + ".back" + strconv.Itoa(backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", "path", oldest, "error", err)
	}

	// .back2 -> .back3, .back1 -> .back2
	for i := backupCount - 1; i >= 1; i-- {
		from := configPath + ".back" + strconv.Itoa(i)
		to := configPath + ".back" + strconv.Itoa(i+1)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, to); err != nil {
				return errors.Wrapf(err, "failed to rotate %s", filepath.Base(from))
			}
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(configPath+".back1", content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// loadOrInitialize reads a TOML file into a generic map, or returns an empty
// map when it does not exist yet
func loadOrInitialize(configPath string) (map[string]interface{}, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return nil, errors.Wrap(err, "failed to create config directory")
	}

	config := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", configPath)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", configPath)
	}
	return config, nil
}

func save(config map[string]interface{}, configPath string) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Mark this as our own write to prevent reload loops
	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// SetValue persists key=value into the user config file
// (~/.formulary/am.toml). See SetValueIn.
func SetValue(key, raw string) error {
	path := UserConfigPath()
	if path == "" {
		return errors.New("could not determine home directory")
	}
	if err := SetValueIn(path, key, raw); err != nil {
		return err
	}
	Reset()
	return nil
}

// SetValueIn persists key=value into configPath. The key must be a known
// dotted key such as "export.width"; raw is converted to the type of that
// key's default. The merged result is validated before anything is written.
func SetValueIn(configPath, key, raw string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if !IsKnownKey(key) {
		return errors.WithHintf(
			errors.NewNotFoundError("unknown config key %q", key),
			"known keys: %s", strings.Join(KnownKeys(), ", "),
		)
	}

	value, err := convertValue(key, raw)
	if err != nil {
		return err
	}

	config, err := loadOrInitialize(configPath)
	if err != nil {
		return err
	}
	setNested(config, strings.Split(key, "."), value)

	// Validate the file layered over defaults before committing it
	v := viper.New()
	SetDefaults(v)
	if err := v.MergeConfigMap(config); err != nil {
		return errors.Wrap(err, "failed to merge config")
	}
	candidate, err := LoadWithViper(v)
	if err != nil {
		return err
	}
	if err := candidate.Validate(); err != nil {
		return errors.Wrapf(err, "refusing to set %s", key)
	}

	if err := save(config, configPath); err != nil {
		return err
	}

	logger.Infow("Config value persisted", "key", key, "path", configPath)
	return nil
}

// KnownKeys lists every dotted key that has a default, sorted
func KnownKeys() []string {
	v := viper.New()
	SetDefaults(v)
	return v.AllKeys()
}

// IsKnownKey reports whether key is a recognised configuration key
func IsKnownKey(key string) bool {
	for _, k := range KnownKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func convertValue(key, raw string) (interface{}, error) {
	v := viper.New()
	SetDefaults(v)

	switch v.Get(key).(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.NewInvalidRequestError("%s expects true or false, got %q", key, raw)
		}
		return b, nil
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewInvalidRequestError("%s expects an integer, got %q", key, raw)
		}
		return int64(n), nil
	case float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.NewInvalidRequestError("%s expects a number, got %q", key, raw)
		}
		return f, nil
	case []string:
		var out []string
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

func setNested(m map[string]interface{}, path []string, value interface{}) {
	for _, part := range path[:len(path)-1] {
		next, ok := m[part].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[part] = next
		}
		m = next
	}
	m[path[len(path)-1]] = value
}
