package tools

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/lexandro/mdtick/checklist"
	"github.com/lexandro/mdtick/index"
	"github.com/lexandro/mdtick/render"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatusArgs defines the input parameters for the checklist_status tool (none required).
type StatusArgs struct{}

// StatusHandler holds the dependencies for the status tool.
type StatusHandler struct {
	Results   *index.ResultIndex
	Items     *index.ItemIndex
	StartTime time.Time
	Inputs    []string
	Logger    *slog.Logger
}

// Handle processes a checklist_status request.
func (h *StatusHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args StatusArgs) (*mcp.CallToolResult, any, error) {
	var builder strings.Builder

	outcomes := h.Results.All()
	failed := len(outcomes) - checklist.Succeeded(outcomes)
	overall := checklist.Aggregate(outcomes)
	uptime := time.Since(h.StartTime)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	h.Logger.Info("checklist_status",
		"files", len(outcomes),
		"failed", failed,
		"memory", memStats.Alloc,
		"uptime", uptime,
	)

	builder.WriteString("=== mdtick Status ===\n\n")
	builder.WriteString(fmt.Sprintf("Inputs: %s\n", strings.Join(h.Inputs, " ")))
	builder.WriteString(fmt.Sprintf("Uptime: %s\n", formatDuration(uptime)))
	builder.WriteString(fmt.Sprintf("Tracked files: %d (%d unreadable)\n", len(outcomes), failed))
	builder.WriteString(fmt.Sprintf("Indexed items: %d\n", h.Items.DocumentCount()))
	builder.WriteString(fmt.Sprintf("Overall: %s completed (%s)\n", render.FractionLabel(overall), percentText(overall)))
	builder.WriteString(fmt.Sprintf("Memory usage: %s (heap: %s)\n",
		formatFileSize(int64(memStats.Alloc)),
		formatFileSize(int64(memStats.HeapAlloc)),
	))

	if failed > 0 {
		builder.WriteString("\nUnreadable:\n")
		for _, o := range outcomes {
			if !o.OK() {
				builder.WriteString(fmt.Sprintf("  %s\n", FormatOutcomeError(o)))
			}
		}
	}

	return textResult(builder.String()), nil, nil
}

func percentText(r checklist.FileResult) string {
	label := render.PercentLabel(r)
	if label == render.NoPercent {
		return label
	}
	return label + "%"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}
	totalMinutes := totalSeconds / 60
	remainderSeconds := totalSeconds % 60
	if totalMinutes < 60 {
		return fmt.Sprintf("%dm%ds", totalMinutes, remainderSeconds)
	}
	hours := totalMinutes / 60
	remainderMinutes := totalMinutes % 60
	return fmt.Sprintf("%dh%dm", hours, remainderMinutes)
}
