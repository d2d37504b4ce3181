package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"

	"github.com/lexandro/mdtick/checklist"
)

//go:embed templates/dashboard.html templates/style.css
var templateFS embed.FS

// HTMLOptions configures the HTML export. Empty file paths select the embedded defaults.
type HTMLOptions struct {
	Title        string
	Version      string
	TemplateFile string
	CSSFile      string
	BarWidth     int
}

type htmlRow struct {
	Name      string
	Completed string
	Total     string
	Bar       string
	Percent   string
	Failed    bool
}

type htmlPage struct {
	Title   string
	Version string
	CSS     template.CSS
	Headers []string
	Rows    []htmlRow
	Overall *htmlRow
}

// RenderHTML writes the table view as a standalone HTML document with the CSS inlined.
func RenderHTML(w io.Writer, outcomes []checklist.Outcome, opts HTMLOptions) error {
	templateText, err := readAsset(opts.TemplateFile, "templates/dashboard.html")
	if err != nil {
		return err
	}
	css, err := readAsset(opts.CSSFile, "templates/style.css")
	if err != nil {
		return err
	}

	tmpl, err := template.New("dashboard").Parse(string(templateText))
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	title := opts.Title
	if title == "" {
		title = "Dashboard"
	}
	page := htmlPage{
		Title:   title,
		Version: opts.Version,
		CSS:     template.CSS(css),
		Headers: TableHeaders,
	}
	for _, o := range outcomes {
		if !o.OK() {
			page.Rows = append(page.Rows, htmlRow{
				Name:      DisplayName(o) + " (" + ErrorLabel(o.Err) + ")",
				Completed: "-",
				Total:     "-",
				Bar:       "—",
				Percent:   "-",
				Failed:    true,
			})
			continue
		}
		page.Rows = append(page.Rows, newHTMLRow(DisplayName(o), o.Result, opts.BarWidth))
	}
	if len(outcomes) > 1 {
		aggregate := checklist.Aggregate(outcomes)
		row := newHTMLRow(aggregate.Title, aggregate, opts.BarWidth)
		page.Overall = &row
	}

	if err := tmpl.Execute(w, page); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

// WriteHTMLFile renders the HTML export into path.
func WriteHTMLFile(path string, outcomes []checklist.Outcome, opts HTMLOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := RenderHTML(f, outcomes, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func newHTMLRow(name string, r checklist.FileResult, barWidth int) htmlRow {
	return htmlRow{
		Name:      name,
		Completed: strconv.Itoa(r.Completed),
		Total:     strconv.Itoa(r.Total),
		Bar:       PlainBar(r, barWidth),
		Percent:   percentCell(r),
	}
}

// readAsset returns the override file when set, otherwise the embedded default.
func readAsset(overridePath string, embedded string) ([]byte, error) {
	if overridePath == "" {
		return templateFS.ReadFile(embedded)
	}
	data, err := os.ReadFile(overridePath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", overridePath, err)
	}
	return data, nil
}
