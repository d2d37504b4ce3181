package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lexandro/mdtick/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ItemsArgs defines the input parameters for the checklist_items tool.
type ItemsArgs struct {
	Path        string `json:"path" jsonschema:"Tracked Markdown file, as given on the command line or relative to the working directory"`
	PendingOnly bool   `json:"pendingOnly,omitempty" jsonschema:"If true list only unchecked items"`
}

// ItemsHandler holds the dependencies for the items tool.
type ItemsHandler struct {
	Results *index.ResultIndex
	Logger  *slog.Logger
}

// Handle processes a checklist_items request.
func (h *ItemsHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ItemsArgs) (*mcp.CallToolResult, any, error) {
	if args.Path == "" {
		h.Logger.Warn("checklist_items called with empty path")
		return errorResult("Error: path parameter is required"), nil, nil
	}

	outcome, ok := h.Results.Lookup(args.Path)
	if !ok {
		h.Logger.Info("checklist_items file not tracked", "path", args.Path)
		return errorResult(fmt.Sprintf("File not tracked: %s", args.Path)), nil, nil
	}
	if !outcome.OK() {
		return errorResult(FormatOutcomeError(outcome)), nil, nil
	}

	h.Logger.Info("checklist_items", "path", args.Path, "items", outcome.Result.Total)

	return textResult(FormatItems(h.Results.RelativePath(outcome.Path), outcome.Result, args.PendingOnly)), nil, nil
}
