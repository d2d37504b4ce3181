package server

import (
	"github.com/lexandro/mdtick/tools"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handlers bundles the tool handlers served by mdtick.
type Handlers struct {
	Progress *tools.ProgressHandler
	Search   *tools.SearchHandler
	Items    *tools.ItemsHandler
	Status   *tools.StatusHandler
	Rescan   *tools.RescanHandler
}

// Setup creates and configures the MCP server with all tool registrations.
func Setup(version string, handlers Handlers) *mcp.Server {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mdtick",
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: `This server tracks Markdown checklists ("- [ ] task", "- [x] done") across the configured files and keeps their progress in memory.

Use these tools to answer questions about task progress instead of reading Markdown files:
- checklist_progress for completion per file and overall
- checklist_search to find tasks by text, or every open task with pendingOnly
- checklist_items to list the tasks of one file
- The data updates automatically when files change (via filesystem watcher)`,
		},
	)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "checklist_progress",
		Description: `Show checklist completion per tracked file plus an "All files" total.

Arguments:
  - pattern: glob over tracked paths (e.g. "docs/**/*.md"). Empty selects all files.
  - view: "table" (default) or "bars".`,
	}, handlers.Progress.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name: "checklist_search",
		Description: `Search checklist item text across all tracked files.

Query formats:
  - Plain text: word-level matching (e.g., "release")
  - "quoted text": exact phrase matching (e.g., "\"release notes\"")
  - /regex/: regular expression matching on single words (e.g., "/deploy.*/")

Filtering:
  - pendingOnly: only unchecked items. With pendingOnly the query may be empty to list every open task.
  - fileGlob: glob pattern over file paths (e.g., "docs/**").`,
	}, handlers.Search.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "checklist_items",
		Description: `List the checklist items of one tracked file with line numbers (format: "N: [x] text").`,
	}, handlers.Items.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "checklist_status",
		Description: "Show tracker status: inputs, tracked and unreadable files, indexed items, overall progress, memory usage, and uptime.",
	}, handlers.Status.Handle)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "checklist_rescan",
		Description: "Re-resolve the inputs and rescan every file. Use after adding files outside the watched directories.",
	}, handlers.Rescan.Handle)

	return mcpServer
}
