package am

import (
	"sync"

	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/internal/watch"
	"github.com/teranos/formulary/logger"
)

// ReloadCallback is called when config is reloaded
// Receives the new config and returns any error
type ReloadCallback func(*Config) error

// ConfigWatcher watches a config file for changes and triggers reload callbacks
type ConfigWatcher struct {
	configPath string
	file       *watch.Watcher
	mu         sync.RWMutex
	callbacks  []ReloadCallback
}

// globalWatcher holds the singleton config watcher instance
var (
	globalWatcher   *ConfigWatcher
	globalWatcherMu sync.Mutex
)

// NewConfigWatcher starts watching configPath. Changes are debounced, then
// the configuration is reloaded and every registered callback runs.
func NewConfigWatcher(configPath string, opts ...watch.Option) (*ConfigWatcher, error) {
	cw := &ConfigWatcher{configPath: configPath}

	file, err := watch.New(configPath, func(string) {
		if err := cw.reload(); err != nil {
			logger.Errorw("Config reload failed", "path", configPath, "error", err)
		}
	}, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to watch config file %s", configPath)
	}
	cw.file = file
	return cw, nil
}

// Path returns the watched config file
func (cw *ConfigWatcher) Path() string {
	return cw.file.Path()
}

// OnReload registers a callback to be called when config is reloaded
func (cw *ConfigWatcher) OnReload(callback ReloadCallback) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// MarkOwnWrite marks the next write as coming from us (prevents reload loops)
func (cw *ConfigWatcher) MarkOwnWrite() {
	cw.file.MarkOwnWrite()
}

// reload reloads the configuration and calls all callbacks
func (cw *ConfigWatcher) reload() error {
	Reset()

	newConfig, err := Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := newConfig.Validate(); err != nil {
		return errors.Wrap(err, "reloaded config is invalid, keeping previous settings")
	}

	logger.Infow("Config reloaded successfully", "path", cw.configPath)

	cw.mu.RLock()
	callbacks := make([]ReloadCallback, len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mu.RUnlock()

	for _, callback := range callbacks {
		if err := callback(newConfig); err != nil {
			// Continue calling other callbacks even if one fails
			logger.Warnw("Config reload callback error", "error", err)
		}
	}
	return nil
}

// Stop stops watching for config changes
func (cw *ConfigWatcher) Stop() error {
	return cw.file.Close()
}

// SetGlobalWatcher sets the global watcher instance (used to prevent reload loops)
func SetGlobalWatcher(watcher *ConfigWatcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = watcher
}

// GetGlobalWatcher returns the global watcher instance
func GetGlobalWatcher() *ConfigWatcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}
