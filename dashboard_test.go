package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func Test_Dashboard_TableWithReadError(t *testing.T) {
	tmpDir := t.TempDir()
	alpha := writeFile(t, filepath.Join(tmpDir, "alpha.md"), "# Alpha\n- [x] a\n- [x] b\n- [x] c\n- [ ] d\n")
	empty := writeFile(t, filepath.Join(tmpDir, "empty.md"), "# Empty\nno tasks\n")
	missing := filepath.Join(tmpDir, "missing.md")

	code, stdout, _ := runCLI("--view", "table", "--banner=false", alpha, missing, empty)

	if code != 0 {
		t.Fatalf("expected exit 0 with a partial failure, got %d", code)
	}
	for _, want := range []string{"Alpha", "75%", "Empty", "—", "missing.md", "file not found", "All files"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got:\n%s", want, stdout)
		}
	}
	if strings.Index(stdout, "Alpha") > strings.Index(stdout, "missing.md") ||
		strings.Index(stdout, "missing.md") > strings.Index(stdout, "Empty") {
		t.Errorf("expected rows in input order, got:\n%s", stdout)
	}
}

func Test_Dashboard_MixedMarkersBars(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "mixed.md"), "- [x] done\n- [ ] todo\n* [X] also done\n")

	code, stdout, _ := runCLI("--banner=false", path)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "2/3") || !strings.Contains(stdout, "67%") {
		t.Errorf("expected 2/3 and 67%%, got:\n%s", stdout)
	}
}

func Test_Dashboard_AllFilesFailed(t *testing.T) {
	tmpDir := t.TempDir()

	code, stdout, _ := runCLI("--banner=false", filepath.Join(tmpDir, "a.md"), filepath.Join(tmpDir, "b.md"))

	if code != 1 {
		t.Errorf("expected exit 1 when nothing could be read, got %d", code)
	}
	if strings.Count(stdout, "file not found") != 2 {
		t.Errorf("expected both failures reported inline, got:\n%s", stdout)
	}
}

func Test_Dashboard_EmptyDirectory(t *testing.T) {
	code, _, stderr := runCLI("--banner=false", t.TempDir())

	if code != 1 {
		t.Errorf("expected exit 1 for nothing to scan, got %d", code)
	}
	if !strings.Contains(stderr, "no markdown files") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func Test_Dashboard_DirectoryAndGlob(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "docs", "b.md"), "# Bravo\n- [ ] x\n")
	writeFile(t, filepath.Join(tmpDir, "docs", "a.md"), "# Able\n- [x] x\n")
	writeFile(t, filepath.Join(tmpDir, "notes", "c.md"), "# Charlie\n- [x] x\n")

	code, stdout, _ := runCLI("--view", "table", "--banner=false",
		filepath.Join(tmpDir, "docs"),
		filepath.Join(tmpDir, "notes", "*.md"),
	)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	able, bravo, charlie := strings.Index(stdout, "Able"), strings.Index(stdout, "Bravo"), strings.Index(stdout, "Charlie")
	if able < 0 || bravo < 0 || charlie < 0 || !(able < bravo && bravo < charlie) {
		t.Errorf("expected sorted directory files followed by glob matches, got:\n%s", stdout)
	}
}

func Test_Dashboard_ConfigListAndHTML(t *testing.T) {
	tmpDir := t.TempDir()
	plan := writeFile(t, filepath.Join(tmpDir, "plan.md"), "# Plan\n- [x] a\n- [ ] b\n")
	list := writeFile(t, filepath.Join(tmpDir, "files.txt"), "\n"+plan+"\n\n")
	htmlPath := filepath.Join(tmpDir, "out.html")

	code, stdout, _ := runCLI("--config", list, "--banner=false", "--html-output", htmlPath)

	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "HTML exported to: "+htmlPath) {
		t.Errorf("expected export notice, got:\n%s", stdout)
	}
	data, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading HTML: %v", err)
	}
	if !strings.Contains(string(data), "Plan") || !strings.Contains(string(data), "50%") {
		t.Errorf("unexpected HTML:\n%s", data)
	}
}

func Test_Dashboard_Banner(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.md"), "- [ ] a\n")

	_, stdout, _ := runCLI(path)

	if !strings.Contains(stdout, "v"+version) {
		t.Errorf("expected banner with version, got:\n%s", stdout)
	}
}

func Test_Dashboard_SkipCodeBlocks(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "a.md"), "- [x] real\n```\n- [ ] example\n```\n")

	_, counted, _ := runCLI("--banner=false", path)
	_, skipped, _ := runCLI("--banner=false", "--skip-code-blocks", path)

	if !strings.Contains(counted, "1/2") {
		t.Errorf("expected fenced item counted by default, got:\n%s", counted)
	}
	if !strings.Contains(skipped, "1/1") {
		t.Errorf("expected fenced item skipped, got:\n%s", skipped)
	}
}
