package render

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lexandro/mdtick/checklist"
)

const (
	// DefaultBarWidth is the number of cells in a progress bar.
	DefaultBarWidth = 20

	// NoPercent is shown instead of a percentage for files without checklist items.
	NoPercent = "—"

	// maxNameWidth caps the name column; longer names are truncated.
	maxNameWidth = 40

	plainFull  = "█"
	plainEmpty = "-"
)

// PercentLabel returns round(100*completed/total) as text, or NoPercent when total is 0.
func PercentLabel(r checklist.FileResult) string {
	percent, ok := r.Percent()
	if !ok {
		return NoPercent
	}
	return strconv.Itoa(percent)
}

// percentCell is PercentLabel with a trailing % sign when there is a number.
func percentCell(r checklist.FileResult) string {
	label := PercentLabel(r)
	if label == NoPercent {
		return label
	}
	return label + "%"
}

// FractionLabel returns "completed/total".
func FractionLabel(r checklist.FileResult) string {
	return fmt.Sprintf("%d/%d", r.Completed, r.Total)
}

// PlainBar draws an uncolored bar of width cells, filled to floor(width*completed/total).
// A file without items gets an all-empty bar.
func PlainBar(r checklist.FileResult, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}
	filled := int(math.Floor(r.Ratio() * float64(width)))
	if filled > width {
		filled = width
	}
	return strings.Repeat(plainFull, filled) + strings.Repeat(plainEmpty, width-filled)
}

// DisplayName is the label shown for an outcome: the document title when the file
// was scanned, otherwise the file name.
func DisplayName(o checklist.Outcome) string {
	if o.OK() && o.Result.Title != "" {
		return o.Result.Title
	}
	return filepath.Base(o.Path)
}

// ErrorLabel turns a scan error into a short human message.
func ErrorLabel(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, fs.ErrNotExist):
		return "file not found"
	case errors.Is(err, fs.ErrPermission):
		return "permission denied"
	}
	var readErr *checklist.FileReadError
	if errors.As(err, &readErr) && readErr.Err != nil {
		return readErr.Err.Error()
	}
	return err.Error()
}

// truncate shortens s to at most width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// nameColumnWidth is the widest display name, capped at maxNameWidth.
func nameColumnWidth(outcomes []checklist.Outcome, extra ...string) int {
	width := 0
	measure := func(s string) {
		if n := len([]rune(s)); n > width {
			width = n
		}
	}
	for _, o := range outcomes {
		measure(DisplayName(o))
	}
	for _, s := range extra {
		measure(s)
	}
	if width > maxNameWidth {
		width = maxNameWidth
	}
	return width
}
