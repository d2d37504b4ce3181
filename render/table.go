package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lexandro/mdtick/checklist"
)

// TableHeaders are the column titles of the table view.
var TableHeaders = []string{"File", "Completed", "Total", "Progress", "Percent"}

// tableRows builds the cell text for every outcome plus the aggregate row.
// Unreadable files get "-" in every numeric column.
func tableRows(outcomes []checklist.Outcome, barWidth int) [][]string {
	rows := make([][]string, 0, len(outcomes)+1)
	for _, o := range outcomes {
		name := truncate(DisplayName(o), maxNameWidth)
		if !o.OK() {
			rows = append(rows, []string{"⚠ " + name + " (" + ErrorLabel(o.Err) + ")", "-", "-", "-", "-"})
			continue
		}
		rows = append(rows, resultRow(name, o.Result, barWidth))
	}

	if len(outcomes) > 1 {
		aggregate := checklist.Aggregate(outcomes)
		rows = append(rows, resultRow(aggregate.Title, aggregate, barWidth))
	}
	return rows
}

func resultRow(name string, r checklist.FileResult, barWidth int) []string {
	return []string{
		name,
		strconv.Itoa(r.Completed),
		strconv.Itoa(r.Total),
		PlainBar(r, barWidth),
		percentCell(r),
	}
}

// RenderTable writes the static table view.
func RenderTable(w io.Writer, outcomes []checklist.Outcome, opts Options) error {
	rows := tableRows(outcomes, opts.BarWidth)
	lastRow := len(rows) - 1
	hasTotal := len(outcomes) > 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(TableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			style := cellStyle
			switch col {
			case 0:
				if row < len(outcomes) && !outcomes[row].OK() {
					style = errorStyle.Padding(0, 1)
				} else {
					style = nameStyle.Padding(0, 1)
				}
			case 1, 2, 4:
				style = numericStyle
			}
			if hasTotal && row == lastRow {
				style = style.Bold(true)
			}
			return style
		})

	if opts.Title != "" {
		if _, err := fmt.Fprintln(w, titleStyle.Render(opts.Title)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
