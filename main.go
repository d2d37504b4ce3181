package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/lexandro/mdtick/config"
	"github.com/lexandro/mdtick/register"
	"github.com/lexandro/mdtick/render"
)

const (
	version    = "0.3.0"
	serverName = "mdtick"
)

// excludePatterns is a repeatable CLI flag for custom ignore patterns.
type excludePatterns []string

func (e *excludePatterns) String() string { return strings.Join(*e, ", ") }
func (e *excludePatterns) Set(value string) error {
	*e = append(*e, value)
	return nil
}

// dashboardOptions holds the flags shared by the dashboard and serve commands.
type dashboardOptions struct {
	view           string
	title          string
	configPath     string
	excludes       excludePatterns
	banner         bool
	htmlOutput     string
	templateFile   string
	cssFile        string
	skipCodeBlocks bool
	watch          bool
	interval       time.Duration
	step           time.Duration
	logLevel       string
	logFile        string
	showVersion    bool

	inputs []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches to a subcommand and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		switch args[0] {
		case "scan":
			return runScan(args[1:], stdout, stderr)
		case "serve":
			return runServe(args[1:], stderr)
		case "register":
			return register.Run(serverName, args[1:], stdout, stderr)
		}
	}
	return runDashboard(args, stdout, stderr)
}

func newDashboardFlags(name string, opts *dashboardOptions, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.view, "view", "bars", "Display mode: bars|table (animated is an alias for bars)")
	fs.StringVar(&opts.title, "title", "", "Heading printed above the dashboard")
	fs.StringVar(&opts.configPath, "config", "", "Config file: YAML (.yaml/.yml) or one path per line")
	fs.Var(&opts.excludes, "exclude", "Extra ignore pattern (repeatable)")
	fs.BoolVar(&opts.banner, "banner", true, "Show the mdtick banner (--banner=false to hide)")
	fs.StringVar(&opts.htmlOutput, "html-output", "", "Also write the table view as HTML to this file")
	fs.StringVar(&opts.templateFile, "template-file", "", "HTML template overriding the built-in one")
	fs.StringVar(&opts.cssFile, "css-file", "", "CSS file overriding the built-in stylesheet")
	fs.BoolVar(&opts.skipCodeBlocks, "skip-code-blocks", false, "Ignore checklist items inside fenced code blocks")
	fs.BoolVar(&opts.watch, "watch", false, "Re-render whenever a tracked file changes")
	fs.DurationVar(&opts.interval, "interval", 2*time.Second, "Polling interval when file events are unavailable")
	fs.DurationVar(&opts.step, "step", render.DefaultStepDelay, "Delay between animation steps")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file path (default: stderr)")
	fs.BoolVar(&opts.showVersion, "version", false, "Print the version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  mdtick [flags] FILE|DIR|GLOB...     # dashboard\n")
		fmt.Fprintf(stderr, "  mdtick --config mdtick.yaml [flags]\n")
		fmt.Fprintf(stderr, "  mdtick scan [flags] FOLDER OUTPUT   # list files containing checklists\n")
		fmt.Fprintf(stderr, "  mdtick serve [flags] FILE|DIR|GLOB... # MCP server on stdio\n")
		fmt.Fprintf(stderr, "  mdtick register project|user [--dry-run] [dir] [-- serve args]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses flags that may appear before, between or after positional arguments.
// Everything after a "--" terminator is positional.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if consumed := len(args) - len(rest); consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// parseDashboardArgs parses flags and merges the config file. Flags set on the
// command line win over config values; config files are listed before positional inputs.
// The returned code is -1 when the caller should continue.
func parseDashboardArgs(name string, args []string, stderr io.Writer) (*dashboardOptions, int) {
	opts := &dashboardOptions{}
	fs := newDashboardFlags(name, opts, stderr)

	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, 0
		}
		return nil, 2
	}
	if opts.showVersion {
		return opts, -1
	}

	if opts.configPath != "" {
		cfg, err := config.Load(opts.configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return nil, 1
		}
		set := make(map[string]bool)
		fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

		opts.inputs = append(opts.inputs, cfg.Files...)
		opts.excludes = append(opts.excludes, cfg.Exclude...)
		if !set["view"] && cfg.View != "" {
			opts.view = cfg.View
		}
		if !set["banner"] && cfg.Banner != nil {
			opts.banner = *cfg.Banner
		}
		if !set["skip-code-blocks"] && cfg.SkipCodeBlocks != nil {
			opts.skipCodeBlocks = *cfg.SkipCodeBlocks
		}
		if !set["html-output"] && cfg.HTMLOutput != "" {
			opts.htmlOutput = cfg.HTMLOutput
		}
	}
	opts.inputs = append(opts.inputs, positional...)

	if len(opts.inputs) == 0 {
		fmt.Fprintf(stderr, "Error: no input files, directories or patterns given\n")
		fs.Usage()
		return nil, 2
	}
	return opts, -1
}

// setupLogger creates an slog.Logger writing to stderr or a file.
func setupLogger(level string, logFile string, stderr io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelWarn
	}

	writer := stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(stderr, "Warning: cannot open log file %s: %v, falling back to stderr\n", logFile, err)
		} else {
			writer = f
		}
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{Level: logLevel})
	return slog.New(handler)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
