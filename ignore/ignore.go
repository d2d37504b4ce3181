package ignore

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// IgnoreFileName is the project-local ignore file, read alongside .gitignore.
const IgnoreFileName = ".mdtickignore"

// Matcher decides which paths below a root directory are skipped while discovering
// Markdown files. It combines the default lists, .gitignore, .mdtickignore and
// custom --exclude patterns.
// Reload takes the write lock; ShouldIgnore and ShouldIgnoreDir take the read lock.
type Matcher struct {
	mu               sync.RWMutex
	rootDir          string
	gitIgnore        gitignore.GitIgnore
	localIgnore      gitignore.GitIgnore
	customPatterns   []string
	maxFileSizeBytes int64
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir          string
	CustomPatterns   []string
	MaxFileSizeBytes int64
}

// NewMatcher creates a matcher rooted at options.RootDir.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:          options.RootDir,
		customPatterns:   options.CustomPatterns,
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}
	if matcher.maxFileSizeBytes <= 0 {
		matcher.maxFileSizeBytes = 4 * 1024 * 1024
	}

	matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)
	matcher.localIgnore = loadIgnoreFile(filepath.Join(options.RootDir, IgnoreFileName), options.RootDir)

	return matcher
}

// RootDir returns the directory the matcher resolves relative paths against.
func (m *Matcher) RootDir() string {
	return m.rootDir
}

// ShouldIgnore returns true if the given absolute path should be skipped.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	if matchesDefaults(relativePath) {
		return true
	}

	isDir := false
	if info, err := os.Stat(absolutePath); err == nil {
		isDir = info.IsDir()
	}

	for _, gi := range []gitignore.GitIgnore{m.gitIgnore, m.localIgnore} {
		if gi == nil {
			continue
		}
		if match := gi.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return true
		}
	}

	return m.matchesCustomPatterns(relativePath)
}

// ShouldIgnoreDir returns true if a directory should not be descended into.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	name := strings.ToLower(filepath.Base(absolutePath))
	for _, dir := range DefaultIgnoreDirs {
		if name == strings.ToLower(dir) {
			return true
		}
	}
	return m.ShouldIgnore(absolutePath)
}

// IsFileTooLarge returns true if the file exceeds the max file size limit.
func (m *Matcher) IsFileTooLarge(fileSize int64) bool {
	return fileSize > m.maxFileSizeBytes
}

// MaxFileSizeBytes returns the configured maximum file size.
func (m *Matcher) MaxFileSizeBytes() int64 {
	return m.maxFileSizeBytes
}

// matchesDefaults checks every path component against DefaultIgnoreDirs and the
// base name against DefaultIgnoreFiles.
func matchesDefaults(relativePath string) bool {
	parts := strings.Split(relativePath, "/")
	for _, part := range parts[:len(parts)-1] {
		lower := strings.ToLower(part)
		for _, dir := range DefaultIgnoreDirs {
			if lower == strings.ToLower(dir) {
				return true
			}
		}
	}

	base := parts[len(parts)-1]
	for _, pattern := range DefaultIgnoreFiles {
		if matched, err := filepath.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// matchesCustomPatterns checks the relative path and its base name against --exclude
// patterns. Patterns use doublestar syntax, so "drafts/**" covers nested files.
func (m *Matcher) matchesCustomPatterns(relativePath string) bool {
	baseName := path.Base(relativePath)
	for _, pattern := range m.customPatterns {
		pattern = filepath.ToSlash(pattern)
		if doublestar.MatchUnvalidated(pattern, relativePath) || doublestar.MatchUnvalidated(pattern, baseName) {
			return true
		}
	}
	return false
}

// Reload re-reads .gitignore and .mdtickignore. Called when the watcher sees them change.
func (m *Matcher) Reload() {
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)
	newLocalIgnore := loadIgnoreFile(filepath.Join(m.rootDir, IgnoreFileName), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
	m.localIgnore = newLocalIgnore
}

// IsIgnoreFile reports whether path names one of the ignore files a Matcher reads.
func IsIgnoreFile(path string) bool {
	base := filepath.Base(path)
	return base == ".gitignore" || base == IgnoreFileName
}

// loadIgnoreFile reads an ignore file through an io.Reader so the handle is closed
// before returning (Windows keeps open files locked).
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
