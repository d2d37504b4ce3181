// Package config loads dashboard config files.
//
// Two formats are accepted. Files ending in .yaml or .yml are YAML documents:
//
//	files:
//	  - docs/roadmap.md
//	  - "plans/**/*.md"
//	view: table
//	exclude: ["*.wip.md"]
//	banner: false
//	skip_code_blocks: true
//	html_output: dashboard.html
//
// Any other file is a plain list with one Markdown path (or glob, or directory) per line.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the config file does not exist.
	ErrNotFound = errors.New("config file not found")
	// ErrNoFiles is returned when the config file lists no inputs.
	ErrNoFiles = errors.New("no markdown files found in config")
)

// Config is a dashboard description loaded from disk. Pointer fields are nil when unset,
// so command-line flags can tell "not configured" from a zero value.
type Config struct {
	Files          []string `yaml:"files"`
	View           string   `yaml:"view"`
	Exclude        []string `yaml:"exclude"`
	Banner         *bool    `yaml:"banner"`
	SkipCodeBlocks *bool    `yaml:"skip_code_blocks"`
	HTMLOutput     string   `yaml:"html_output"`
}

// Load reads a config file, picking the format from the extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = parseYAML(data)
	default:
		cfg, err = parseList(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.Files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, path)
	}
	return cfg, nil
}

func parseYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Files = cleanEntries(cfg.Files)
	return &cfg, nil
}

// parseList reads one entry per line; blank lines are skipped and surrounding
// whitespace is trimmed.
func parseList(data []byte) (*Config, error) {
	var files []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		files = append(files, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Config{Files: cleanEntries(files)}, nil
}

func cleanEntries(entries []string) []string {
	cleaned := make([]string, 0, len(entries))
	for _, e := range entries {
		if e = strings.TrimSpace(e); e != "" {
			cleaned = append(cleaned, e)
		}
	}
	return cleaned
}

// WriteList writes paths in the plain list format, one per line.
func WriteList(path string, paths []string) error {
	var buf bytes.Buffer
	for _, p := range paths {
		buf.WriteString(p)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing list %s: %w", path, err)
	}
	return nil
}
