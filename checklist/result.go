package checklist

import (
	"fmt"
	"math"
)

// Item is a single checklist line extracted during a scan.
type Item struct {
	Line    int    // 1-based line number
	Checked bool   // true for [x] / [X]
	Text    string // text after the checkbox, trimmed
}

// FileResult holds the checklist counts for one Markdown file.
// Completed never exceeds Total.
type FileResult struct {
	Path      string
	Title     string // first level-1 heading, or the file stem
	Completed int
	Total     int
	Items     []Item // only populated when Options.CollectItems is set
}

// Pending returns the number of unchecked items.
func (r FileResult) Pending() int {
	return r.Total - r.Completed
}

// Ratio returns Completed/Total in [0, 1]. A file without items has ratio 0.
func (r FileResult) Ratio() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Completed) / float64(r.Total)
}

// Percent returns round(100*Completed/Total). ok is false when Total is 0.
func (r FileResult) Percent() (percent int, ok bool) {
	if r.Total == 0 {
		return 0, false
	}
	return int(math.Round(100 * float64(r.Completed) / float64(r.Total))), true
}

// IsComplete reports whether the file has items and all of them are checked.
func (r FileResult) IsComplete() bool {
	return r.Total > 0 && r.Completed == r.Total
}

// Outcome pairs an input path with its scan result or the error that prevented the scan.
type Outcome struct {
	Path   string
	Result FileResult
	Err    error
}

// OK reports whether the file was scanned.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Succeeded returns how many outcomes were scanned without error.
func Succeeded(outcomes []Outcome) int {
	count := 0
	for _, o := range outcomes {
		if o.OK() {
			count++
		}
	}
	return count
}

// Aggregate sums the counts of all successfully scanned files.
func Aggregate(outcomes []Outcome) FileResult {
	total := FileResult{Title: "All files"}
	for _, o := range outcomes {
		if !o.OK() {
			continue
		}
		total.Completed += o.Result.Completed
		total.Total += o.Result.Total
	}
	return total
}

// FileReadError reports a path that could not be opened or read.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}
