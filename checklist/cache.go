package checklist

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of files a CachingScanner remembers.
const DefaultCacheSize = 1024

type cachedResult struct {
	size    int64
	modTime time.Time
	result  FileResult
}

// CachingScanner wraps a Scanner and reuses the last result of a file whose size and
// modification time have not changed. Failed scans are never cached.
type CachingScanner struct {
	scanner *Scanner
	cache   *lru.Cache[string, cachedResult] // key: absolute path
}

// NewCachingScanner creates a cache of size entries (DefaultCacheSize when size <= 0).
func NewCachingScanner(scanner *Scanner, size int) (*CachingScanner, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedResult](size)
	if err != nil {
		return nil, fmt.Errorf("creating scan cache: %w", err)
	}
	return &CachingScanner{scanner: scanner, cache: cache}, nil
}

// ScanFile returns the cached result for path when the file is unchanged, otherwise
// scans it again.
func (c *CachingScanner) ScanFile(path string) (FileResult, error) {
	key := cacheKey(path)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.cache.Remove(key)
		return c.scanner.ScanFile(path)
	}
	if cached, ok := c.cache.Get(key); ok && cached.size == info.Size() && cached.modTime.Equal(info.ModTime()) {
		// Path is kept as given so callers see the spelling they asked for.
		result := cached.result
		result.Path = path
		return result, nil
	}

	result, err := c.scanner.ScanFile(path)
	if err != nil {
		c.cache.Remove(key)
		return result, err
	}
	c.cache.Add(key, cachedResult{size: info.Size(), modTime: info.ModTime(), result: result})
	return result, nil
}

// ScanAll is Scanner.ScanAll with the cache in front.
func (c *CachingScanner) ScanAll(paths []string) []Outcome {
	outcomes := make([]Outcome, 0, len(paths))
	for _, path := range paths {
		result, err := c.ScanFile(path)
		outcomes = append(outcomes, Outcome{Path: path, Result: result, Err: err})
	}
	return outcomes
}

// Invalidate drops the cached results for paths so the next scan reads them again.
func (c *CachingScanner) Invalidate(paths ...string) {
	for _, path := range paths {
		c.cache.Remove(cacheKey(path))
	}
}

// Len returns the number of cached files.
func (c *CachingScanner) Len() int {
	return c.cache.Len()
}

func cacheKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
