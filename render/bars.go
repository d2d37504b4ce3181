package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/lexandro/mdtick/checklist"
)

// barLayout holds what every bar line of one dashboard shares.
type barLayout struct {
	nameWidth     int
	fractionWidth int
	bar           progress.Model
}

func newBarLayout(outcomes []checklist.Outcome, barWidth int) barLayout {
	if barWidth <= 0 {
		barWidth = DefaultBarWidth
	}
	aggregate := checklist.Aggregate(outcomes)
	return barLayout{
		nameWidth:     nameColumnWidth(outcomes, aggregate.Title),
		fractionWidth: len(FractionLabel(aggregate)),
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		),
	}
}

// line renders one bar row. shown is how many completed items the bar displays;
// it equals r.Completed except while animating.
func (l barLayout) line(name string, r checklist.FileResult, shown int, style lipgloss.Style) string {
	ratio := 0.0
	if r.Total > 0 {
		ratio = float64(shown) / float64(r.Total)
	}
	current := checklist.FileResult{Completed: shown, Total: r.Total}

	return fmt.Sprintf("%s %s %*s %4s",
		style.Width(l.nameWidth).Render(truncate(name, l.nameWidth)),
		l.bar.ViewAs(ratio),
		l.fractionWidth, FractionLabel(current),
		percentCell(current),
	)
}

// errorLine renders the row of a file that could not be read.
func (l barLayout) errorLine(o checklist.Outcome) string {
	return fmt.Sprintf("%s %s",
		warnStyle.Width(l.nameWidth).Render(truncate(DisplayName(o), l.nameWidth)),
		warnStyle.Render("⚠ "+ErrorLabel(o.Err)),
	)
}

// barsView renders every outcome plus the aggregate footer. shown[i] is the number of
// completed items displayed for outcomes[i]; nil means final counts.
func barsView(l barLayout, outcomes []checklist.Outcome, shown []int) string {
	var builder strings.Builder
	aggregate := checklist.Aggregate(outcomes)
	aggregateShown := 0

	for i, o := range outcomes {
		if !o.OK() {
			builder.WriteString(l.errorLine(o))
			builder.WriteString("\n")
			continue
		}
		n := o.Result.Completed
		if shown != nil {
			n = shown[i]
		}
		aggregateShown += n
		builder.WriteString(l.line(DisplayName(o), o.Result, n, nameStyle))
		builder.WriteString("\n")
	}

	if len(outcomes) > 1 {
		builder.WriteString(l.line(aggregate.Title, aggregate, aggregateShown, totalStyle))
		builder.WriteString("\n")
	}
	return builder.String()
}

// RenderBars writes the final, non-animated bars view.
func RenderBars(w io.Writer, outcomes []checklist.Outcome, opts Options) error {
	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, titleStyle.Render(opts.Title)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, barsView(newBarLayout(outcomes, opts.BarWidth), outcomes, nil))
	return err
}
