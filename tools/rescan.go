package tools

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RescanArgs defines the input parameters for the checklist_rescan tool.
type RescanArgs struct{}

// RescanSummary describes a completed rescan.
type RescanSummary struct {
	Files   int
	Failed  int
	Items   int
	Elapsed string
}

// RescanFunc is the function signature for the rescan operation.
// It is provided by the serve command, which owns the indexes.
type RescanFunc func() (RescanSummary, error)

// RescanHandler holds the dependencies for the rescan tool.
type RescanHandler struct {
	DoRescan RescanFunc
	Logger   *slog.Logger
}

// Handle processes a checklist_rescan request.
func (h *RescanHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args RescanArgs) (*mcp.CallToolResult, any, error) {
	h.Logger.Info("checklist_rescan started")

	summary, err := h.DoRescan()
	if err != nil {
		h.Logger.Error("checklist_rescan failed", "error", err)
		return errorResult(fmt.Sprintf("Rescan error: %v", err)), nil, nil
	}

	h.Logger.Info("checklist_rescan complete",
		"files", summary.Files,
		"failed", summary.Failed,
		"items", summary.Items,
		"elapsed", summary.Elapsed,
	)

	output := fmt.Sprintf("Rescan complete: %d files (%d unreadable), %d items in %s",
		summary.Files, summary.Failed, summary.Items, summary.Elapsed)

	return textResult(output), nil, nil
}
