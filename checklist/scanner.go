// Package checklist counts Markdown task-list items.
package checklist

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// ItemPattern matches "- [ ] text", "* [x] text", "+ [X] text" with optional indentation.
	// Groups: checkbox state, remaining text.
	ItemPattern = `^\s*[-*+]\s+\[([ xX])\](.*)$`

	// TitlePattern matches a level-1 heading.
	TitlePattern = `^# (.+)`
)

var (
	itemRegexp  = regexp.MustCompile(ItemPattern)
	titleRegexp = regexp.MustCompile(TitlePattern)
)

// Options configures a Scanner.
type Options struct {
	// SkipCodeFences ignores lines inside ``` or ~~~ fenced code blocks.
	SkipCodeFences bool
	// CollectItems keeps every matched Item on the FileResult.
	CollectItems bool
}

// Scanner turns Markdown content into FileResults. It holds no state between scans.
type Scanner struct {
	options Options
}

// NewScanner creates a scanner with the given options.
func NewScanner(options Options) *Scanner {
	return &Scanner{options: options}
}

// ParseLine reports whether line is a checklist item and returns it.
// The returned Item has no line number.
func ParseLine(line string) (Item, bool) {
	match := itemRegexp.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if match == nil {
		return Item{}, false
	}
	return Item{
		Checked: match[1] == "x" || match[1] == "X",
		Text:    strings.TrimSpace(match[2]),
	}, true
}

// Scan reads content line by line and counts checklist items.
// path is only used for the result's Path and the title fallback.
func (s *Scanner) Scan(path string, r io.Reader) (FileResult, error) {
	result := FileResult{Path: path}

	// Lines have no length limit: a long line (an inline image, say) is content, not an error.
	reader := bufio.NewReader(r)

	inFence := false
	lineNumber := 0
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return FileResult{}, &FileReadError{Path: path, Err: readErr}
		}
		if readErr == io.EOF && line == "" {
			break
		}
		lineNumber++
		line = strings.TrimRight(line, "\r\n")
		s.scanLine(&result, line, lineNumber, &inFence)
		if readErr == io.EOF {
			break
		}
	}

	if result.Title == "" {
		result.Title = fileStem(path)
	}
	return result, nil
}

// scanLine counts one line into result. inFence tracks fenced code blocks across lines.
func (s *Scanner) scanLine(result *FileResult, line string, lineNumber int, inFence *bool) {
	if s.options.SkipCodeFences && isFenceDelimiter(line) {
		*inFence = !*inFence
		return
	}
	if *inFence {
		return
	}

	if result.Title == "" {
		if m := titleRegexp.FindStringSubmatch(line); m != nil {
			result.Title = strings.TrimSpace(m[1])
		}
	}

	item, ok := ParseLine(line)
	if !ok {
		return
	}
	result.Total++
	if item.Checked {
		result.Completed++
	}
	if s.options.CollectItems {
		item.Line = lineNumber
		result.Items = append(result.Items, item)
	}
}

// ScanFile opens path and scans it. Failures are returned as *FileReadError.
func (s *Scanner) ScanFile(path string) (FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return FileResult{}, &FileReadError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return FileResult{}, &FileReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return FileResult{}, &FileReadError{Path: path, Err: errIsDirectory}
	}

	return s.Scan(path, f)
}

// ScanAll scans paths one after another, in order. An unreadable path yields an
// Outcome carrying its error; the remaining paths are still scanned.
func (s *Scanner) ScanAll(paths []string) []Outcome {
	outcomes := make([]Outcome, 0, len(paths))
	for _, path := range paths {
		result, err := s.ScanFile(path)
		outcomes = append(outcomes, Outcome{Path: path, Result: result, Err: err})
	}
	return outcomes
}

// ContainsChecklist reports whether any line of content is a checklist item.
func ContainsChecklist(content []byte) bool {
	for len(content) > 0 {
		line := content
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			line, content = content[:i], content[i+1:]
		} else {
			content = nil
		}
		if itemRegexp.Match(bytes.TrimRight(line, "\r")) {
			return true
		}
	}
	return false
}

func isFenceDelimiter(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
