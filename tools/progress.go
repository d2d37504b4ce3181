package tools

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lexandro/mdtick/index"
	"github.com/lexandro/mdtick/render"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ProgressArgs defines the input parameters for the checklist_progress tool.
type ProgressArgs struct {
	Pattern string `json:"pattern,omitempty" jsonschema:"Optional glob pattern to select files (e.g. docs/**/*.md). Empty selects every tracked file"`
	View    string `json:"view,omitempty" jsonschema:"Rendering: table (default) or bars"`
}

// ProgressHandler holds the dependencies for the progress tool.
type ProgressHandler struct {
	Results *index.ResultIndex
	Logger  *slog.Logger
}

// Handle processes a checklist_progress request.
func (h *ProgressHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args ProgressArgs) (*mcp.CallToolResult, any, error) {
	start := time.Now()

	view := args.View
	if view == "" {
		view = render.ModeTable.String()
	}
	mode, err := render.ParseMode(view)
	if err != nil {
		h.Logger.Warn("checklist_progress called with invalid view", "view", args.View)
		return errorResult(fmt.Sprintf("Error: %v", err)), nil, nil
	}

	outcomes, err := h.Results.Match(args.Pattern)
	if err != nil {
		h.Logger.Error("checklist_progress failed", "pattern", args.Pattern, "error", err)
		return errorResult(fmt.Sprintf("Search error: %v", err)), nil, nil
	}
	if len(outcomes) == 0 {
		return textResult("No tracked files matched."), nil, nil
	}

	var buf bytes.Buffer
	if err := render.Render(ctx, &buf, mode, outcomes, render.Options{}); err != nil {
		h.Logger.Error("checklist_progress render failed", "error", err)
		return errorResult(fmt.Sprintf("Render error: %v", err)), nil, nil
	}

	h.Logger.Info("checklist_progress",
		"pattern", args.Pattern,
		"view", mode,
		"files", len(outcomes),
		"elapsed", time.Since(start),
	)

	return textResult(buf.String()), nil, nil
}
