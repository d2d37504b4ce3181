// Package watcher reports debounced changes to Markdown files below a set of directories.
package watcher

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceInterval is the quiet period before a batch of events is emitted.
const DefaultDebounceInterval = 100 * time.Millisecond

// IgnoreChecker is used by the watcher to check if a path should be ignored.
type IgnoreChecker interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
}

// Watcher provides recursive file system watching with debouncing.
type Watcher struct {
	fsWatcher     *fsnotify.Watcher
	debouncer     *Debouncer
	ignoreChecker IgnoreChecker
	logger        *slog.Logger
}

// NewWatcher creates a recursive file watcher on every directory in dirs.
// It registers all non-ignored subdirectories for watching. A zero interval
// selects DefaultDebounceInterval.
func NewWatcher(dirs []string, ignoreChecker IgnoreChecker, interval time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories to watch")
	}
	if interval <= 0 {
		interval = DefaultDebounceInterval
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher:     fsWatcher,
		debouncer:     NewDebouncer(interval),
		ignoreChecker: ignoreChecker,
		logger:        logger,
	}

	watched := 0
	for _, dir := range dirs {
		watched += w.addTree(dir)
	}
	if watched == 0 {
		fsWatcher.Close()
		return nil, fmt.Errorf("none of %d directories could be watched", len(dirs))
	}

	return w, nil
}

// addTree walks a directory tree and adds all non-ignored directories to the watcher.
// It returns the number of directories added.
func (w *Watcher) addTree(root string) int {
	added := 0
	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Skip entries that can't be read
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.ignoreChecker.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if watchErr := w.fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
			return nil
		}
		added++
		return nil
	})
	return added
}

// Events returns the channel that receives debounced file system events.
func (w *Watcher) Events() <-chan []DebouncedEvent {
	return w.debouncer.Output()
}

// Start begins listening for file system events. Call this in a goroutine.
// It runs until the watcher is closed.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent processes a single fsnotify event, converting it to a debounced event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// A new directory may already contain files; watch it and report nothing for the dir itself
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if !w.ignoreChecker.ShouldIgnoreDir(path) {
				w.addTree(path)
				w.addExisting(path)
			}
			return
		}
	}

	if w.ignoreChecker.ShouldIgnore(path) {
		return
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.logger.Debug("file event", "path", path, "op", op)
	w.debouncer.Add(path, op)
}

// addExisting reports files that were already present when a new directory was noticed.
func (w *Watcher) addExisting(dir string) {
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != dir && w.ignoreChecker.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.ignoreChecker.ShouldIgnore(path) {
			w.debouncer.Add(path, OpCreate)
		}
		return nil
	})
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.debouncer.Stop()
	return w.fsWatcher.Close()
}
