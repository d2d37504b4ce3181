package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/mdtick/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchArgs defines the input parameters for the checklist_search tool.
type SearchArgs struct {
	Query       string `json:"query,omitempty" jsonschema:"Search query over item text. Plain text for word match, quoted for exact phrase, /regex/ for regular expression. May be empty when pendingOnly is set"`
	PendingOnly bool   `json:"pendingOnly,omitempty" jsonschema:"If true return only unchecked items"`
	FileGlob    string `json:"fileGlob,omitempty" jsonschema:"Optional glob pattern to filter files (e.g. docs/**/*.md)"`
	MaxResults  int    `json:"maxResults,omitempty" jsonschema:"Maximum number of items to return (default 50)"`
}

// SearchHandler holds the dependencies for the search tool.
type SearchHandler struct {
	Items  *index.ItemIndex
	Logger *slog.Logger
}

// Handle processes a checklist_search request.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	if args.Query == "" && !args.PendingOnly {
		h.Logger.Warn("checklist_search called with empty query")
		return errorResult("Error: query parameter is required unless pendingOnly is set"), nil, nil
	}

	hits, total, err := h.Items.Search(index.SearchOptions{
		Query:       args.Query,
		PendingOnly: args.PendingOnly,
		PathGlob:    args.FileGlob,
		MaxResults:  args.MaxResults,
	})
	if err != nil {
		h.Logger.Error("checklist_search failed", "query", args.Query, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}

	h.Logger.Info("checklist_search",
		"query", args.Query,
		"pendingOnly", args.PendingOnly,
		"fileGlob", args.FileGlob,
		"items", total,
		"elapsed", time.Since(start),
	)

	return textResult(FormatItemHits(hits, total)), nil, nil
}
