package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/lexandro/mdtick/checklist"
	"github.com/lexandro/mdtick/config"
	"github.com/lexandro/mdtick/ignore"
	"github.com/lexandro/mdtick/language"
)

// runScan implements "mdtick scan FOLDER OUTPUT": it lists the Markdown files below
// FOLDER that contain at least one checklist item. OUTPUT "-" writes to stdout.
func runScan(args []string, stdout, stderr io.Writer) int {
	var excludes excludePatterns
	var maxFileSizeBytes int64
	var logLevel string
	var logFile string

	fs := flag.NewFlagSet("mdtick scan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Var(&excludes, "exclude", "Extra ignore pattern (repeatable)")
	fs.Int64Var(&maxFileSizeBytes, "max-file-size", 4*1024*1024, "Maximum file size in bytes")
	fs.StringVar(&logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	fs.StringVar(&logFile, "log-file", "", "Log file path (default: stderr)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mdtick scan [flags] FOLDER OUTPUT\n\nFlags:\n")
		fs.PrintDefaults()
	}

	positional, err := parseArgs(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if len(positional) != 2 {
		fs.Usage()
		return 2
	}
	folder, output := positional[0], positional[1]

	info, err := os.Stat(folder)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "Error: %s is not a directory\n", folder)
		return 1
	}

	logger := setupLogger(logLevel, logFile, stderr)
	rootDir, err := filepath.Abs(folder)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:          rootDir,
		CustomPatterns:   excludes,
		MaxFileSizeBytes: maxFileSizeBytes,
	})

	start := time.Now()
	found, scanned := discoverChecklists(folder, matcher, logger)
	logger.Info("scan complete", "markdown", scanned, "matches", len(found), "duration", time.Since(start))

	summary := stdout
	if output == "-" {
		summary = stderr
		for _, path := range found {
			fmt.Fprintln(stdout, path)
		}
	} else if err := config.WriteList(output, found); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(summary, "Found %d Markdown files containing task lists (of %d scanned).\n", len(found), scanned)
	if output != "-" {
		fmt.Fprintf(summary, "Results written to: %s\n", output)
	}
	return 0
}

// discoverChecklists walks folder and checks every eligible Markdown file for a task list.
// It returns the matching paths sorted, and the number of Markdown files checked.
func discoverChecklists(folder string, matcher *ignore.Matcher, logger *slog.Logger) ([]string, int) {
	var found []string
	var scanned int
	var mu sync.Mutex

	// Use a bounded worker pool for parallel file reading
	const workerCount = 8
	jobs := make(chan string, 100)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				hasChecklist, err := fileContainsChecklist(path)
				if err != nil {
					logger.Warn("skipped file", "path", path, "error", err)
					continue
				}
				mu.Lock()
				scanned++
				if hasChecklist {
					found = append(found, path)
				}
				mu.Unlock()
			}
		}()
	}

	absFolder, _ := filepath.Abs(folder)
	filepath.WalkDir(folder, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		absPath, absErr := filepath.Abs(path)
		if absErr != nil {
			return nil
		}
		if d.IsDir() {
			if absPath != absFolder && matcher.ShouldIgnoreDir(absPath) {
				return filepath.SkipDir
			}
			return nil
		}
		if !language.IsMarkdown(path) || matcher.ShouldIgnore(absPath) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if matcher.IsFileTooLarge(info.Size()) {
			logger.Debug("skipped large file", "path", path, "size", info.Size())
			return nil
		}
		jobs <- path
		return nil
	})

	close(jobs)
	wg.Wait()

	sort.Strings(found)
	return found, scanned
}

// fileContainsChecklist reads one file and reports whether it has a checklist item.
func fileContainsChecklist(path string) (bool, error) {
	content, err := readFileWithRetry(path)
	if err != nil {
		return false, fmt.Errorf("reading file: %w", err)
	}
	if language.IsBinaryContent(content) {
		return false, nil
	}
	return checklist.ContainsChecklist(content), nil
}

// readFileWithRetry attempts to read a file, retrying once after a short delay
// if the file is locked (common on Windows when editors are saving).
func readFileWithRetry(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		time.Sleep(50 * time.Millisecond)
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
