// Package source expands command-line inputs into an ordered list of Markdown files.
package source

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexandro/mdtick/ignore"
	"github.com/lexandro/mdtick/language"
)

// Resolver turns files, directories and glob patterns into Markdown paths.
type Resolver struct {
	// Excludes are extra ignore patterns applied to directory walks and glob matches.
	Excludes []string
	Logger   *slog.Logger
}

// Resolve expands inputs in order:
//   - a pattern containing glob meta characters expands to matching Markdown files, sorted
//   - an existing directory expands to the Markdown files below it, sorted, ignore rules applied
//   - anything else is returned unchanged, so a missing file surfaces later as a read error
//
// Duplicates are dropped; the first occurrence keeps its position.
func (r *Resolver) Resolve(inputs []string) ([]string, error) {
	var resolved []string
	seen := make(map[string]bool)
	add := func(path string) {
		key := filepath.Clean(path)
		if seen[key] {
			return
		}
		seen[key] = true
		resolved = append(resolved, path)
	}

	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if IsGlob(input) {
			matches, err := r.expandGlob(input)
			if err != nil {
				return nil, err
			}
			if len(matches) == 0 {
				r.logger().Warn("pattern matched no markdown files", "pattern", input)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(input)
		if err == nil && info.IsDir() {
			files, err := r.walkDir(input)
			if err != nil {
				return nil, fmt.Errorf("walking %s: %w", input, err)
			}
			if len(files) == 0 {
				r.logger().Warn("directory contains no markdown files", "dir", input)
			}
			for _, f := range files {
				add(f)
			}
			continue
		}

		add(input)
	}

	return resolved, nil
}

// IsGlob reports whether s contains doublestar meta characters.
func IsGlob(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

// expandGlob matches a doublestar pattern on the filesystem and keeps Markdown files.
func (r *Resolver) expandGlob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", pattern, err)
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	matcher := r.matcherFor(filepath.FromSlash(base))

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if !language.IsMarkdown(m) {
			continue
		}
		if abs, err := filepath.Abs(m); err == nil && matcher.ShouldIgnore(abs) {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

// walkDir collects Markdown files below dir, skipping ignored directories and files.
func (r *Resolver) walkDir(dir string) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	matcher := r.matcherFor(dir)

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			r.logger().Debug("skipping unreadable entry", "path", path, "error", err)
			return nil
		}
		abs, absErr := filepath.Abs(path)
		if absErr != nil {
			return nil
		}
		if d.IsDir() {
			if abs != absDir && matcher.ShouldIgnoreDir(abs) {
				return filepath.SkipDir
			}
			return nil
		}
		if !language.IsMarkdown(path) || matcher.ShouldIgnore(abs) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (r *Resolver) matcherFor(dir string) *ignore.Matcher {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}
	return ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        absDir,
		CustomPatterns: r.Excludes,
	})
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

// WatchDirs returns the directories to watch for the given inputs and resolved files:
// every input directory (recursively, non-ignored), the base directory of every glob,
// and the parent directory of every file. Sorted and unique.
func (r *Resolver) WatchDirs(inputs []string, files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		abs, err := filepath.Abs(dir)
		if err != nil || seen[abs] {
			return
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			return
		}
		seen[abs] = true
		dirs = append(dirs, abs)
	}

	for _, input := range inputs {
		switch {
		case IsGlob(input):
			base, _ := doublestar.SplitPattern(filepath.ToSlash(input))
			r.addTree(filepath.FromSlash(base), add)
		default:
			if info, err := os.Stat(input); err == nil && info.IsDir() {
				r.addTree(input, add)
			}
		}
	}
	for _, f := range files {
		add(filepath.Dir(f))
	}

	sort.Strings(dirs)
	return dirs
}

// addTree calls add for root and every non-ignored directory below it.
func (r *Resolver) addTree(root string, add func(string)) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return
	}
	matcher := r.matcherFor(root)
	filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != absRoot && matcher.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		add(path)
		return nil
	})
}
