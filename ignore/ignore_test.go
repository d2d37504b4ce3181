package ignore

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_Matcher_DefaultDirs_NodeModules(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	path := filepath.Join(tmpDir, "node_modules", "left-pad", "README.md")
	if !matcher.ShouldIgnore(path) {
		t.Error("expected files under node_modules to be ignored")
	}
}

func Test_Matcher_DefaultDirs_CaseInsensitive(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	path := filepath.Join(tmpDir, "Vendor", "lib", "TODO.md")
	if !matcher.ShouldIgnore(path) {
		t.Error("expected Vendor/ to be ignored regardless of case")
	}
}

func Test_Matcher_DefaultFiles_Changelog(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.ShouldIgnore(filepath.Join(tmpDir, "CHANGELOG.md")) {
		t.Error("expected CHANGELOG.md to be ignored")
	}
	if matcher.ShouldIgnore(filepath.Join(tmpDir, "docs", "plan.md")) {
		t.Error("expected docs/plan.md to NOT be ignored")
	}
}

func Test_Matcher_GitignoreIntegration(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("drafts/\n*.scratch.md\n"), 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.ShouldIgnore(filepath.Join(tmpDir, "ideas.scratch.md")) {
		t.Error("expected .gitignore pattern to ignore *.scratch.md")
	}
	if matcher.ShouldIgnore(filepath.Join(tmpDir, "ideas.md")) {
		t.Error("expected ideas.md to NOT be ignored")
	}
}

func Test_Matcher_LocalIgnoreFile(t *testing.T) {
	tmpDir := t.TempDir()
	os.WriteFile(filepath.Join(tmpDir, IgnoreFileName), []byte("archive.md\n"), 0644)

	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	if !matcher.ShouldIgnore(filepath.Join(tmpDir, "archive.md")) {
		t.Error("expected .mdtickignore pattern to ignore archive.md")
	}
}

func Test_Matcher_Reload(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})
	target := filepath.Join(tmpDir, "old.md")

	if matcher.ShouldIgnore(target) {
		t.Fatal("expected old.md to be visible before reload")
	}

	os.WriteFile(filepath.Join(tmpDir, IgnoreFileName), []byte("old.md\n"), 0644)
	matcher.Reload()

	if !matcher.ShouldIgnore(target) {
		t.Error("expected old.md to be ignored after reload")
	}
}

func Test_Matcher_CustomPatterns(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{
		RootDir:        tmpDir,
		CustomPatterns: []string{"*.wip.md", "notes/*"},
	})

	if !matcher.ShouldIgnore(filepath.Join(tmpDir, "sub", "x.wip.md")) {
		t.Error("expected base-name pattern to match in a subdirectory")
	}
	if !matcher.ShouldIgnore(filepath.Join(tmpDir, "notes", "a.md")) {
		t.Error("expected relative-path pattern to match")
	}
}

func Test_Matcher_CustomDoublestarPattern(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{
		RootDir:        tmpDir,
		CustomPatterns: []string{"drafts/**"},
	})

	if !matcher.ShouldIgnore(filepath.Join(tmpDir, "drafts", "2025", "q1.md")) {
		t.Error("expected ** to match nested files")
	}
	if matcher.ShouldIgnore(filepath.Join(tmpDir, "docs", "drafts.md")) {
		t.Error("expected unrelated file to be kept")
	}
}

func Test_Matcher_ShouldIgnoreDir(t *testing.T) {
	tmpDir := t.TempDir()
	matcher := NewMatcher(MatcherOptions{RootDir: tmpDir})

	tests := []struct {
		dirName string
		ignored bool
	}{
		{".git", true},
		{"node_modules", true},
		{".idea", true},
		{"docs", false},
		{"plans", false},
	}
	for _, tt := range tests {
		got := matcher.ShouldIgnoreDir(filepath.Join(tmpDir, tt.dirName))
		if got != tt.ignored {
			t.Errorf("ShouldIgnoreDir(%s) = %v, want %v", tt.dirName, got, tt.ignored)
		}
	}
}

func Test_Matcher_FileSizeLimit(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir(), MaxFileSizeBytes: 1024})

	if !matcher.IsFileTooLarge(2048) {
		t.Error("expected 2KB file to exceed 1KB limit")
	}
	if matcher.IsFileTooLarge(512) {
		t.Error("expected 512B file to be within 1KB limit")
	}
}

func Test_Matcher_DefaultMaxFileSize(t *testing.T) {
	matcher := NewMatcher(MatcherOptions{RootDir: t.TempDir()})
	if matcher.MaxFileSizeBytes() != 4*1024*1024 {
		t.Errorf("expected default max file size 4MB, got %d", matcher.MaxFileSizeBytes())
	}
}

func Test_IsIgnoreFile(t *testing.T) {
	if !IsIgnoreFile("/repo/.gitignore") || !IsIgnoreFile("/repo/.mdtickignore") {
		t.Error("expected ignore files to be recognized")
	}
	if IsIgnoreFile("/repo/README.md") {
		t.Error("expected README.md to not be an ignore file")
	}
}
