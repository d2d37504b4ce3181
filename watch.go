package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lexandro/mdtick/ignore"
	"github.com/lexandro/mdtick/language"
	"github.com/lexandro/mdtick/watcher"
)

const clearScreen = "\033[H\033[2J"

// watchFilter tells the watcher which paths matter: Markdown files that are not
// ignored, tracked files even when ignore rules would skip them, and ignore files.
type watchFilter struct {
	matcher *ignore.Matcher

	mu      sync.RWMutex
	tracked map[string]bool // key: absolute path
}

func newWatchFilter(rootDir string, excludes []string) *watchFilter {
	return &watchFilter{
		matcher: ignore.NewMatcher(ignore.MatcherOptions{
			RootDir:        rootDir,
			CustomPatterns: excludes,
		}),
		tracked: make(map[string]bool),
	}
}

// track replaces the set of files that are always reported.
func (f *watchFilter) track(files []string) {
	tracked := make(map[string]bool, len(files))
	for _, file := range files {
		if abs, err := filepath.Abs(file); err == nil {
			tracked[abs] = true
		}
	}
	f.mu.Lock()
	f.tracked = tracked
	f.mu.Unlock()
}

// reload re-reads .gitignore and .mdtickignore below the filter's root.
func (f *watchFilter) reload() {
	f.matcher.Reload()
}

// reloadIfIgnoreChanged reloads the ignore rules when paths include an ignore file.
// It reports whether a reload happened.
func (f *watchFilter) reloadIfIgnoreChanged(paths []string) bool {
	for _, path := range paths {
		if ignore.IsIgnoreFile(path) {
			f.reload()
			return true
		}
	}
	return false
}

func (f *watchFilter) ShouldIgnoreDir(absolutePath string) bool {
	return f.matcher.ShouldIgnoreDir(absolutePath)
}

func (f *watchFilter) ShouldIgnore(absolutePath string) bool {
	if ignore.IsIgnoreFile(absolutePath) {
		return false
	}
	if !language.IsMarkdown(absolutePath) {
		return true
	}
	f.mu.RLock()
	tracked := f.tracked[absolutePath]
	f.mu.RUnlock()
	if tracked {
		return false
	}
	return f.matcher.ShouldIgnore(absolutePath)
}

// watch renders the dashboard and re-renders it after every debounced batch of file
// changes until ctx is cancelled. Without a usable file watcher it polls.
func (d *dashboard) watch(ctx context.Context, interval time.Duration) int {
	files, ok := d.refresh(ctx)
	if !ok {
		return 1
	}

	rootDir, _ := os.Getwd()
	filter := newWatchFilter(rootDir, d.resolver.Excludes)
	filter.track(files)

	fileWatcher, err := watcher.NewWatcher(d.resolver.WatchDirs(d.inputs, files), filter, 0, d.logger)
	if err != nil {
		d.logger.Warn("failed to start file watcher, polling instead", "interval", interval, "error", err)
		return d.poll(ctx, interval, files)
	}
	go fileWatcher.Start()
	defer fileWatcher.Close()

	for {
		select {
		case <-ctx.Done():
			return 0
		case batch := <-fileWatcher.Events():
			changed := watcher.Paths(batch)
			d.logger.Debug("files changed", "paths", changed)
			d.scanner.Invalidate(changed...)
			if filter.reloadIfIgnoreChanged(changed) {
				d.logger.Info("ignore rules reloaded")
			}
			if files, ok = d.refresh(ctx); ok {
				filter.track(files)
			}
		}
	}
}

// poll re-renders whenever the resolved file set or a file's size or modification
// time differs from the previous check.
func (d *dashboard) poll(ctx context.Context, interval time.Duration, files []string) int {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	previous := takeSnapshot(files)
	for {
		select {
		case <-ctx.Done():
			return 0
		case <-ticker.C:
			resolved, err := d.resolver.Resolve(d.inputs)
			if err != nil {
				d.logger.Warn("poll: resolving inputs failed", "error", err)
				continue
			}
			current := takeSnapshot(resolved)
			diff := compareSnapshots(previous, current)
			if diff.empty() {
				d.logger.Debug("poll: no changes")
				continue
			}
			d.logger.Info("poll: changes detected",
				"added", diff.Added,
				"removed", diff.Removed,
				"modified", diff.Modified,
			)
			d.refresh(ctx)
			previous = current
		}
	}
}

// refresh rescans and redraws the dashboard. It returns the resolved files and
// whether anything was rendered.
func (d *dashboard) refresh(ctx context.Context) ([]string, bool) {
	files, outcomes, err := d.collect()
	if err != nil {
		fmt.Fprintf(d.stderr, "Error: %v\n", err)
		return nil, false
	}
	if d.interactive {
		fmt.Fprint(d.stdout, clearScreen)
	}
	if len(outcomes) == 0 {
		fmt.Fprintf(d.stdout, "No markdown files to scan. Waiting for changes...\n")
		return files, true
	}
	if err := d.show(ctx, outcomes, false); err != nil {
		fmt.Fprintf(d.stderr, "Error: %v\n", err)
		return files, false
	}
	fmt.Fprintf(d.stdout, "\nWatching %d files. Last update %s. Press Ctrl+C to stop.\n",
		len(files), time.Now().Format("15:04:05"))
	return files, true
}

// fileState is what polling compares between two checks.
type fileState struct {
	size    int64
	modTime time.Time
	exists  bool
}

// snapshotDiff counts the differences between two snapshots.
type snapshotDiff struct {
	Added    int // in the new file set only
	Removed  int // in the old file set only
	Modified int // size, modification time or existence changed
}

func (s snapshotDiff) empty() bool {
	return s.Added == 0 && s.Removed == 0 && s.Modified == 0
}

func takeSnapshot(files []string) map[string]fileState {
	snapshot := make(map[string]fileState, len(files))
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			snapshot[file] = fileState{}
			continue
		}
		snapshot[file] = fileState{size: info.Size(), modTime: info.ModTime(), exists: true}
	}
	return snapshot
}

func compareSnapshots(previous, current map[string]fileState) snapshotDiff {
	var diff snapshotDiff
	for path, state := range current {
		old, ok := previous[path]
		switch {
		case !ok:
			diff.Added++
		case old.exists != state.exists || old.size != state.size || !old.modTime.Equal(state.modTime):
			diff.Modified++
		}
	}
	for path := range previous {
		if _, ok := current[path]; !ok {
			diff.Removed++
		}
	}
	return diff
}
