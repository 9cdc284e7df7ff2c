// Package watch delivers debounced change notifications for a single file.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename-and-replace keep producing events.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/teranos/formulary/errors"
	"github.com/teranos/formulary/logger"
)

// DefaultDebounce collapses the burst of events a single save produces
const DefaultDebounce = 200 * time.Millisecond

// Handler is called once per debounced change with the watched path
type Handler func(path string)

// Watcher watches one file for changes
type Watcher struct {
	path     string
	name     string
	debounce time.Duration
	handler  Handler
	fsw      *fsnotify.Watcher

	mu       sync.Mutex
	timer    *time.Timer
	ownUntil time.Time
	closed   bool
	done     chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New starts watching path and calls handler after each debounced change.
// The file does not need to exist yet, but its directory does.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, errors.NewInvalidRequestError("watch handler is required")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve %s", path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, errors.Wrapf(err, "failed to watch directory %s", dir)
	}

	w := &Watcher{
		path:     abs,
		name:     filepath.Base(abs),
		debounce: DefaultDebounce,
		handler:  handler,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.loop()
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// ownWriteWindow is how long events are ignored after MarkOwnWrite. A
// single save can emit several events, so one flag is not enough.
const ownWriteWindow = 500 * time.Millisecond

// MarkOwnWrite suppresses change notifications for a short window. Call it
// right before writing the file yourself to avoid a reload loop.
func (w *Watcher) MarkOwnWrite() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ownUntil = time.Now().Add(w.debounce + ownWriteWindow)
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.name || IsBackupFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warnw("File watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) schedule(event fsnotify.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if time.Now().Before(w.ownUntil) {
		logger.Debugw("File watcher ignoring own write", "path", w.path)
		return
	}

	logger.Debugw("File watcher detected change", "path", w.path, "op", event.Op.String())

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		closed := w.closed
		w.mu.Unlock()
		if !closed {
			w.handler(w.path)
		}
	})
}

// Close stops watching. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

// IsBackupFile reports whether path is one of the rotating .backN copies
func IsBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back") && len(ext) > len(".back")
}
