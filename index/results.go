package index

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexandro/mdtick/checklist"
)

// ResultIndex keeps the latest scan outcome of every tracked file.
// Iteration follows the order in which paths were first added, which is the
// resolved input order of the dashboard.
type ResultIndex struct {
	mu       sync.RWMutex
	rootDir  string
	outcomes map[string]checklist.Outcome // key: path as resolved
	order    []string
}

// NewResultIndex creates an empty index. Glob matching uses paths relative to rootDir
// when they live below it; an empty rootDir matches paths as given.
func NewResultIndex(rootDir string) *ResultIndex {
	return &ResultIndex{
		rootDir:  rootDir,
		outcomes: make(map[string]checklist.Outcome),
		order:    make([]string, 0),
	}
}

// Replace drops every tracked file and stores outcomes in their given order.
func (ri *ResultIndex) Replace(outcomes []checklist.Outcome) {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	ri.outcomes = make(map[string]checklist.Outcome, len(outcomes))
	ri.order = make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if _, exists := ri.outcomes[o.Path]; !exists {
			ri.order = append(ri.order, o.Path)
		}
		ri.outcomes[o.Path] = o
	}
}

// Set adds or updates one outcome. New paths go to the end.
func (ri *ResultIndex) Set(outcome checklist.Outcome) {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	if _, exists := ri.outcomes[outcome.Path]; !exists {
		ri.order = append(ri.order, outcome.Path)
	}
	ri.outcomes[outcome.Path] = outcome
}

// Remove stops tracking path.
func (ri *ResultIndex) Remove(path string) {
	ri.mu.Lock()
	defer ri.mu.Unlock()

	if _, exists := ri.outcomes[path]; !exists {
		return
	}
	delete(ri.outcomes, path)
	for i, p := range ri.order {
		if p == path {
			ri.order = append(ri.order[:i], ri.order[i+1:]...)
			break
		}
	}
}

// Get returns the outcome for path.
func (ri *ResultIndex) Get(path string) (checklist.Outcome, bool) {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	o, ok := ri.outcomes[path]
	return o, ok
}

// Lookup finds a tracked file by its resolved path, its path relative to the root,
// or its absolute path.
func (ri *ResultIndex) Lookup(path string) (checklist.Outcome, bool) {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	if o, ok := ri.outcomes[path]; ok {
		return o, true
	}
	wanted := filepath.ToSlash(filepath.Clean(path))
	for _, p := range ri.order {
		if ri.relative(p) == wanted || filepath.ToSlash(absolute(p)) == wanted {
			return ri.outcomes[p], true
		}
	}
	return checklist.Outcome{}, false
}

// Count returns the number of tracked files.
func (ri *ResultIndex) Count() int {
	ri.mu.RLock()
	defer ri.mu.RUnlock()
	return len(ri.outcomes)
}

// All returns every outcome in input order.
func (ri *ResultIndex) All() []checklist.Outcome {
	ri.mu.RLock()
	defer ri.mu.RUnlock()

	result := make([]checklist.Outcome, 0, len(ri.order))
	for _, path := range ri.order {
		result = append(result, ri.outcomes[path])
	}
	return result
}

// Match returns the outcomes whose relative path matches a doublestar glob pattern,
// in input order. An empty pattern matches everything.
func (ri *ResultIndex) Match(pattern string) ([]checklist.Outcome, error) {
	if pattern == "" {
		return ri.All(), nil
	}

	// Normalize pattern to forward slashes
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	ri.mu.RLock()
	defer ri.mu.RUnlock()

	var result []checklist.Outcome
	for _, path := range ri.order {
		matched, err := doublestar.Match(pattern, ri.relative(path))
		if err != nil || !matched {
			continue
		}
		result = append(result, ri.outcomes[path])
	}
	return result, nil
}

// RelativePath returns path relative to the index root with forward slashes.
func (ri *ResultIndex) RelativePath(path string) string {
	return ri.relative(path)
}

func (ri *ResultIndex) relative(path string) string {
	return relativeTo(ri.rootDir, path)
}

// relativeTo returns path relative to rootDir with forward slashes. Paths outside
// rootDir, or any path when rootDir is empty, are only cleaned.
func relativeTo(rootDir, path string) string {
	if rootDir == "" {
		return filepath.ToSlash(filepath.Clean(path))
	}
	rel, err := filepath.Rel(rootDir, absolute(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(filepath.Clean(path))
	}
	return filepath.ToSlash(rel)
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
