package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lexandro/mdtick/checklist"
	"github.com/lexandro/mdtick/ignore"
	"github.com/lexandro/mdtick/index"
	"github.com/lexandro/mdtick/server"
	"github.com/lexandro/mdtick/source"
	"github.com/lexandro/mdtick/tools"
	"github.com/lexandro/mdtick/watcher"
)

// tracker keeps the result and item indexes in sync with the inputs of a serve session.
type tracker struct {
	mu       sync.Mutex // serializes rescans and incremental updates
	inputs   []string
	resolver *source.Resolver
	scanner  *checklist.CachingScanner
	results  *index.ResultIndex
	items    *index.ItemIndex
	filter   *watchFilter
	logger   *slog.Logger
}

// rescan resolves the inputs again and rebuilds both indexes from scratch.
func (t *tracker) rescan() (tools.RescanSummary, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()
	files, err := t.resolver.Resolve(t.inputs)
	if err != nil {
		return tools.RescanSummary{}, fmt.Errorf("resolving inputs: %w", err)
	}
	outcomes := t.scanner.ScanAll(files)

	if err := t.items.Clear(); err != nil {
		return tools.RescanSummary{}, fmt.Errorf("clearing item index: %w", err)
	}
	itemCount := 0
	for _, o := range outcomes {
		if !o.OK() {
			t.logger.Debug("file not scanned", "path", o.Path, "error", o.Err)
			continue
		}
		if err := t.items.IndexFile(o.Result); err != nil {
			t.logger.Warn("indexing items failed", "path", o.Path, "error", err)
			continue
		}
		itemCount += o.Result.Total
	}
	t.results.Replace(outcomes)
	if t.filter != nil {
		t.filter.track(files)
	}

	return tools.RescanSummary{
		Files:   len(outcomes),
		Failed:  len(outcomes) - checklist.Succeeded(outcomes),
		Items:   itemCount,
		Elapsed: time.Since(start).Round(time.Millisecond).String(),
	}, nil
}

// apply updates the indexes for one batch of file events. Changes to tracked files
// are rescanned individually; anything else can change the resolved file set and
// triggers a full rescan.
func (t *tracker) apply(batch []watcher.DebouncedEvent) {
	needRescan := false
	for _, event := range batch {
		if ignore.IsIgnoreFile(event.Path) {
			t.logger.Info("ignore rules changed", "path", event.Path)
			if t.filter != nil {
				t.filter.reload()
			}
			needRescan = true
			continue
		}
		outcome, tracked := t.results.Lookup(event.Path)
		if !tracked || event.Op.Gone() {
			needRescan = true
			continue
		}
		t.update(outcome.Path)
	}

	if needRescan {
		summary, err := t.rescan()
		if err != nil {
			t.logger.Warn("rescan after file change failed", "error", err)
			return
		}
		t.logger.Info("rescanned after file change", "files", summary.Files, "items", summary.Items)
	}
}

// update rescans one tracked file.
func (t *tracker) update(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scanner.Invalidate(path)
	result, err := t.scanner.ScanFile(path)
	t.results.Set(checklist.Outcome{Path: path, Result: result, Err: err})
	if err != nil {
		t.logger.Debug("file not scanned", "path", path, "error", err)
		if removeErr := t.items.RemoveFile(path); removeErr != nil {
			t.logger.Warn("removing items failed", "path", path, "error", removeErr)
		}
		return
	}
	if err := t.items.IndexFile(result); err != nil {
		t.logger.Warn("indexing items failed", "path", path, "error", err)
		return
	}
	t.logger.Debug("updated file", "path", path, "completed", result.Completed, "total", result.Total)
}

// handleWatcherEvents applies debounced file system events until the channel closes
// or ctx is cancelled.
func (t *tracker) handleWatcherEvents(ctx context.Context, events <-chan []watcher.DebouncedEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-events:
			if !ok {
				return
			}
			t.apply(batch)
		}
	}
}

// runServe implements "mdtick serve": it indexes the inputs and serves the
// checklist tools over MCP stdio. stdout is reserved for the protocol.
func runServe(args []string, stderr io.Writer) int {
	opts, code := parseDashboardArgs("mdtick serve", args, stderr)
	if code >= 0 {
		return code
	}
	if opts.showVersion {
		fmt.Fprintf(stderr, "mdtick %s\n", version)
		return 0
	}

	logger := setupLogger(opts.logLevel, opts.logFile, stderr)
	startTime := time.Now()

	rootDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error getting working directory: %v\n", err)
		return 1
	}

	items, err := index.NewItemIndex(rootDir)
	if err != nil {
		logger.Error("failed to create item index", "error", err)
		return 1
	}
	defer items.Close()

	scanner, err := checklist.NewCachingScanner(checklist.NewScanner(checklist.Options{
		SkipCodeFences: opts.skipCodeBlocks,
		CollectItems:   true,
	}), 0)
	if err != nil {
		logger.Error("failed to create scan cache", "error", err)
		return 1
	}

	resolver := &source.Resolver{Excludes: opts.excludes, Logger: logger}
	t := &tracker{
		inputs:   opts.inputs,
		resolver: resolver,
		scanner:  scanner,
		results:  index.NewResultIndex(rootDir),
		items:    items,
		filter:   newWatchFilter(rootDir, opts.excludes),
		logger:   logger,
	}

	summary, err := t.rescan()
	if err != nil {
		logger.Error("initial scan failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	logger.Info("initial scan complete",
		"files", summary.Files,
		"failed", summary.Failed,
		"items", summary.Items,
		"elapsed", summary.Elapsed,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var files []string
	for _, o := range t.results.All() {
		files = append(files, o.Path)
	}
	fileWatcher, err := watcher.NewWatcher(resolver.WatchDirs(opts.inputs, files), t.filter, 0, logger)
	if err != nil {
		logger.Warn("failed to start file watcher, continuing without live updates", "error", err)
	} else {
		go fileWatcher.Start()
		go t.handleWatcherEvents(ctx, fileWatcher.Events())
		defer fileWatcher.Close()
	}

	mcpServer := server.Setup(version, server.Handlers{
		Progress: &tools.ProgressHandler{Results: t.results, Logger: logger},
		Search:   &tools.SearchHandler{Items: items, Logger: logger},
		Items:    &tools.ItemsHandler{Results: t.results, Logger: logger},
		Status: &tools.StatusHandler{
			Results:   t.results,
			Items:     items,
			StartTime: startTime,
			Inputs:    opts.inputs,
			Logger:    logger,
		},
		Rescan: &tools.RescanHandler{DoRescan: t.rescan, Logger: logger},
	})

	logger.Info("MCP server starting on stdio")
	if err := mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server error", "error", err)
		return 1
	}
	return 0
}
