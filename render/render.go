// Package render draws checklist dashboards as progress bars, tables, or HTML.
package render

import (
	"context"
	"io"
	"time"

	"github.com/lexandro/mdtick/checklist"
)

// Options tunes a dashboard rendering.
type Options struct {
	// Title is printed above the dashboard when set.
	Title string
	// BarWidth is the number of cells per bar. Zero means DefaultBarWidth.
	BarWidth int
	// Animate fills the bars step by step. Only used by ModeBars.
	Animate bool
	// StepDelay is the animation tick. Zero means DefaultStepDelay.
	StepDelay time.Duration
}

// Render writes outcomes to w in the given mode.
func Render(ctx context.Context, w io.Writer, mode Mode, outcomes []checklist.Outcome, opts Options) error {
	switch mode {
	case ModeTable:
		return RenderTable(w, outcomes, opts)
	default:
		if opts.Animate {
			return Animate(ctx, w, outcomes, opts)
		}
		return RenderBars(w, outcomes, opts)
	}
}
