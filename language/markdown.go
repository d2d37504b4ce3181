package language

import (
	"path/filepath"
	"strings"
)

// MarkdownExtensions lists the file extensions (without dot) treated as Markdown.
var MarkdownExtensions = map[string]bool{
	"md":       true,
	"markdown": true,
	"mdown":    true,
	"mkd":      true,
	"mdx":      true,
}

// IsMarkdown reports whether filePath has a Markdown extension. Case-insensitive.
func IsMarkdown(filePath string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
	return MarkdownExtensions[ext]
}

// sniffSize is how much of a file IsBinaryContent inspects.
const sniffSize = 512

// IsBinaryContent reports whether data looks binary: a NUL byte within the first 512 bytes.
func IsBinaryContent(data []byte) bool {
	if len(data) > sniffSize {
		data = data[:sniffSize]
	}
	for _, b := range data {
		if b == 0 {
			return true
		}
	}
	return false
}
