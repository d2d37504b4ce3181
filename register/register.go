// Package register adds "mdtick serve" as an MCP server to Claude configuration files.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// ServeCommand is the subcommand the registered entry runs.
const ServeCommand = "serve"

// Scope selects which configuration file receives the entry.
type Scope string

const (
	// ScopeProject writes <directory>/.mcp.json.
	ScopeProject Scope = "project"
	// ScopeUser writes ~/.claude.json.
	ScopeUser Scope = "user"
)

var errUsage = errors.New("usage error")

// Entry is one mcpServers value.
type Entry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Request is a parsed register command line.
type Request struct {
	Scope     Scope
	Directory string   // project scope only; defaults to "."
	ServeArgs []string // everything after "--"
	DryRun    bool     // print the entry instead of writing it
}

// ParseRequest parses the arguments that follow "register":
//
//	project [--dry-run] [directory] [-- serve args]
//	user [--dry-run] [-- serve args]
func ParseRequest(args []string) (Request, error) {
	if len(args) == 0 {
		return Request{}, fmt.Errorf("%w: missing scope", errUsage)
	}

	req := Request{Scope: Scope(args[0])}
	if req.Scope != ScopeProject && req.Scope != ScopeUser {
		return Request{}, fmt.Errorf("%w: unknown scope %q (must be \"project\" or \"user\")", errUsage, args[0])
	}
	if req.Scope == ScopeProject {
		req.Directory = "."
	}

	dirSet := false
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--":
			req.ServeArgs = rest[i+1:]
			return req, nil
		case arg == "--dry-run" || arg == "-dry-run":
			req.DryRun = true
		case req.Scope == ScopeProject && !dirSet:
			req.Directory = arg
			dirSet = true
		default:
			return Request{}, fmt.Errorf("%w: unexpected argument %q (serve arguments go after \"--\")", errUsage, arg)
		}
	}
	return req, nil
}

// ConfigPath returns the file the request writes to.
func (r Request) ConfigPath() (string, error) {
	if r.Scope == ScopeUser {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(homeDir, ".claude.json"), nil
	}

	absDir, err := filepath.Abs(r.Directory)
	if err != nil {
		return "", fmt.Errorf("resolving directory %s: %w", r.Directory, err)
	}
	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", r.Directory)
	}
	return filepath.Join(absDir, ".mcp.json"), nil
}

// Run executes the register subcommand and returns the process exit code:
// 0 on success, 1 when the config cannot be read or written, 2 on usage errors.
func Run(serverName string, args []string, stdout, stderr io.Writer) int {
	req, err := ParseRequest(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		printUsage(stderr)
		return 2
	}

	binaryPath, err := detectBinaryPath()
	if err != nil {
		fmt.Fprintf(stderr, "Error detecting binary path: %v\n", err)
		return 1
	}
	entry := NewEntry(binaryPath, req.ServeArgs)

	if req.DryRun {
		data, err := json.MarshalIndent(map[string]Entry{serverName: entry}, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s\n", data)
		return 0
	}

	configPath, err := req.ConfigPath()
	if err != nil {
		fmt.Fprintf(stderr, "Error resolving config path: %v\n", err)
		return 1
	}
	if err := WriteEntry(configPath, serverName, entry); err != nil {
		fmt.Fprintf(stderr, "Error writing config: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "Registered %q in %s\n", serverName, configPath)
	return 0
}

func printUsage(w io.Writer) {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s register project [--dry-run] [directory] [-- serve args]  # <directory>/.mcp.json\n", binaryName)
	fmt.Fprintf(w, "  %s register user [--dry-run] [-- serve args]                 # ~/.claude.json\n", binaryName)
	fmt.Fprintf(w, "Example:\n")
	fmt.Fprintf(w, "  %s register project . -- --config mdtick.yaml\n", binaryName)
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

// NewEntry returns the command that starts "<binary> serve <serveArgs>".
// On Windows the binary is launched through cmd /C.
func NewEntry(binaryPath string, serveArgs []string) Entry {
	args := append([]string{ServeCommand}, serveArgs...)
	if runtime.GOOS == "windows" {
		return Entry{Command: "cmd", Args: append([]string{"/C", binaryPath}, args...)}
	}
	return Entry{Command: binaryPath, Args: args}
}

// WriteEntry sets mcpServers[serverName] in the JSON file at configPath. Every other
// key, including other servers, keeps its value. The file is replaced atomically.
func WriteEntry(configPath string, serverName string, entry Entry) error {
	document := map[string]json.RawMessage{}
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &document); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
		if document == nil {
			document = map[string]json.RawMessage{}
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := document["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return fmt.Errorf("mcpServers in %s is not an object", configPath)
		}
		if servers == nil {
			servers = map[string]json.RawMessage{}
		}
	}

	encodedEntry, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding entry: %w", err)
	}
	servers[serverName] = encodedEntry

	encodedServers, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("encoding mcpServers: %w", err)
	}
	document["mcpServers"] = encodedServers

	output, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return replaceFile(configPath, append(output, '\n'))
}

// replaceFile writes data to a temp file next to path and renames it over path.
func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".mdtick-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
