package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"rolebot/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches rolebot.yaml for changes and applies the new logging
// settings at runtime. Only the logging section is hot-reloadable; token
// and storage changes require a restart.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	configPath  string
	lastEvent   time.Time
	debounceDur time.Duration
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(configPath string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		configPath:  configPath,
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
	}, nil
}

// Run watches until the context is cancelled. Editors replace rather than
// rewrite files, so the parent directory is watched and events are filtered
// by name.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dir := filepath.Dir(w.configPath)
	if dir == "" {
		dir = "."
	}
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	logging.Config("Watching %s for changes", w.configPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.configPath) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			debounced := time.Since(w.lastEvent) < w.debounceDur
			if !debounced {
				w.lastEvent = time.Now()
			}
			w.mu.Unlock()
			if debounced {
				continue
			}
			if err := logging.ReloadConfig(); err != nil {
				logging.Get(logging.CategoryConfig).Error("Reload failed: %v", err)
				continue
			}
			logging.Config("Config reloaded after change to %s", event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logging.Get(logging.CategoryConfig).Error("Watcher error: %v", err)
		}
	}
}
