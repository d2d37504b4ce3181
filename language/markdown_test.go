package language

import "testing"

func Test_IsMarkdown(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"README.md", true},
		{"docs/PLAN.MD", true},
		{"notes/todo.markdown", true},
		{"site/page.mdx", true},
		{"main.go", false},
		{"Makefile", false},
		{"archive.md.bak", false},
	}
	for _, tt := range tests {
		if got := IsMarkdown(tt.path); got != tt.want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func Test_IsBinaryContent_TextFile(t *testing.T) {
	if IsBinaryContent([]byte("# Title\n- [ ] task\n")) {
		t.Error("expected text content to not be detected as binary")
	}
}

func Test_IsBinaryContent_NullByte(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x00}
	if !IsBinaryContent(content) {
		t.Error("expected content with a NUL byte to be detected as binary")
	}
}

func Test_IsBinaryContent_NullAfterSniffWindow(t *testing.T) {
	content := make([]byte, 1024)
	for i := range content {
		content[i] = 'a'
	}
	content[900] = 0x00
	if IsBinaryContent(content) {
		t.Error("expected NUL past the first 512 bytes to be ignored")
	}
}

func Test_IsBinaryContent_Empty(t *testing.T) {
	if IsBinaryContent(nil) {
		t.Error("expected empty content to not be detected as binary")
	}
}
