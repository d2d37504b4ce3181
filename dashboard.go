package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexandro/mdtick/checklist"
	"github.com/lexandro/mdtick/render"
	"github.com/lexandro/mdtick/source"
)

// dashboard resolves, scans and renders one set of inputs.
type dashboard struct {
	inputs      []string
	resolver    *source.Resolver
	scanner     *checklist.CachingScanner
	mode        render.Mode
	render      render.Options
	html        render.HTMLOptions
	htmlOutput  string
	banner      bool
	interactive bool
	stdout      io.Writer
	stderr      io.Writer
	logger      *slog.Logger
}

func runDashboard(args []string, stdout, stderr io.Writer) int {
	opts, code := parseDashboardArgs("mdtick", args, stderr)
	if code >= 0 {
		return code
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "mdtick %s\n", version)
		return 0
	}

	mode, err := render.ParseMode(opts.view)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := setupLogger(opts.logLevel, opts.logFile, stderr)
	d, err := newDashboard(opts, mode, stdout, stderr, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.watch {
		return d.watch(ctx, opts.interval)
	}
	return d.runOnce(ctx)
}

func newDashboard(opts *dashboardOptions, mode render.Mode, stdout, stderr io.Writer, logger *slog.Logger) (*dashboard, error) {
	scanner, err := checklist.NewCachingScanner(
		checklist.NewScanner(checklist.Options{SkipCodeFences: opts.skipCodeBlocks}), 0)
	if err != nil {
		return nil, err
	}

	interactive := isTerminal(stdout)
	return &dashboard{
		inputs:   opts.inputs,
		resolver: &source.Resolver{Excludes: opts.excludes, Logger: logger},
		scanner:  scanner,
		mode:     mode,
		render: render.Options{
			Title:     opts.title,
			Animate:   interactive && !opts.watch,
			StepDelay: opts.step,
		},
		html: render.HTMLOptions{
			Title:        opts.title,
			Version:      version,
			TemplateFile: opts.templateFile,
			CSSFile:      opts.cssFile,
		},
		htmlOutput:  opts.htmlOutput,
		banner:      opts.banner,
		interactive: interactive,
		stdout:      stdout,
		stderr:      stderr,
		logger:      logger,
	}, nil
}

// collect resolves the inputs and scans every file in order.
func (d *dashboard) collect() ([]string, []checklist.Outcome, error) {
	start := time.Now()
	files, err := d.resolver.Resolve(d.inputs)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving inputs: %w", err)
	}
	outcomes := d.scanner.ScanAll(files)
	for _, o := range outcomes {
		if !o.OK() {
			d.logger.Debug("file not scanned", "path", o.Path, "error", o.Err)
		}
	}
	d.logger.Info("scan complete",
		"files", len(outcomes),
		"succeeded", checklist.Succeeded(outcomes),
		"elapsed", time.Since(start),
	)
	return files, outcomes, nil
}

// show writes the banner, the dashboard and, when configured, the HTML export.
func (d *dashboard) show(ctx context.Context, outcomes []checklist.Outcome, animate bool) error {
	if d.banner {
		fmt.Fprintln(d.stdout, render.Banner(version))
	}

	opts := d.render
	opts.Animate = animate
	if err := render.Render(ctx, d.stdout, d.mode, outcomes, opts); err != nil {
		return fmt.Errorf("rendering dashboard: %w", err)
	}

	if d.htmlOutput != "" {
		if err := render.WriteHTMLFile(d.htmlOutput, outcomes, d.html); err != nil {
			return fmt.Errorf("exporting HTML: %w", err)
		}
		d.logger.Info("HTML exported", "path", d.htmlOutput)
	}
	return nil
}

// runOnce renders the dashboard a single time and returns the exit code:
// 1 when nothing could be scanned, otherwise 0 even if some files failed.
func (d *dashboard) runOnce(ctx context.Context) int {
	_, outcomes, err := d.collect()
	if err != nil {
		fmt.Fprintf(d.stderr, "Error: %v\n", err)
		return 1
	}
	if len(outcomes) == 0 {
		fmt.Fprintf(d.stderr, "Error: no markdown files to scan\n")
		return 1
	}

	if err := d.show(ctx, outcomes, d.render.Animate); err != nil {
		fmt.Fprintf(d.stderr, "Error: %v\n", err)
		return 1
	}
	if d.htmlOutput != "" {
		fmt.Fprintf(d.stdout, "HTML exported to: %s\n", d.htmlOutput)
	}

	if checklist.Succeeded(outcomes) == 0 {
		return 1
	}
	return 0
}
