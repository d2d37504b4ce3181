package tools

import (
	"fmt"
	"strings"

	"github.com/lexandro/mdtick/checklist"
	"github.com/lexandro/mdtick/index"
	"github.com/lexandro/mdtick/render"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// FormatItemHits formats item search results as human-readable text, grouped by file.
func FormatItemHits(hits []index.ItemHit, total int) string {
	if len(hits) == 0 {
		return "No matching items."
	}

	var builder strings.Builder
	if total > len(hits) {
		builder.WriteString(fmt.Sprintf("Found %d items (showing %d):\n", total, len(hits)))
	} else {
		builder.WriteString(fmt.Sprintf("Found %d items:\n", total))
	}

	currentPath := ""
	for _, hit := range hits {
		if hit.Path != currentPath {
			currentPath = hit.Path
			builder.WriteString(fmt.Sprintf("\n── %s (%s) ──\n", hit.Path, hit.Title))
		}
		builder.WriteString(formatItem(hit.Item))
	}

	return builder.String()
}

// FormatItems formats the checklist of one file with line numbers.
func FormatItems(path string, result checklist.FileResult, pendingOnly bool) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("── %s: %s ──\n", path, result.Title))
	builder.WriteString(fmt.Sprintf("%d/%d completed", result.Completed, result.Total))
	if percent, ok := result.Percent(); ok {
		builder.WriteString(fmt.Sprintf(" (%d%%)", percent))
	}
	builder.WriteString("\n")

	shown := 0
	for _, item := range result.Items {
		if pendingOnly && item.Checked {
			continue
		}
		builder.WriteString(formatItem(item))
		shown++
	}
	if shown == 0 {
		if pendingOnly && result.Total > 0 {
			builder.WriteString("No pending items.\n")
		} else if result.Total == 0 {
			builder.WriteString("No checklist items.\n")
		}
	}

	return builder.String()
}

// FormatOutcomeError formats a file that could not be read.
func FormatOutcomeError(o checklist.Outcome) string {
	return fmt.Sprintf("%s: %s", o.Path, render.ErrorLabel(o.Err))
}

func formatItem(item checklist.Item) string {
	mark := " "
	if item.Checked {
		mark = "x"
	}
	return fmt.Sprintf("  %d: [%s] %s\n", item.Line, mark, item.Text)
}

// formatFileSize converts bytes to a human-readable string.
func formatFileSize(bytes int64) string {
	switch {
	case bytes >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	case bytes >= 1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// errorResult wraps a message as a failed tool result.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// textResult wraps a message as a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
