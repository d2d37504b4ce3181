package tools

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/lexandro/mdtick/checklist"
	"github.com/lexandro/mdtick/index"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in tool result")
	}
	return result.Content[0].(*mcp.TextContent).Text
}

func testOutcomes() []checklist.Outcome {
	return []checklist.Outcome{
		{
			Path: "docs/plan.md",
			Result: checklist.FileResult{
				Path: "docs/plan.md", Title: "Plan", Completed: 1, Total: 2,
				Items: []checklist.Item{
					{Line: 2, Checked: true, Text: "write the parser"},
					{Line: 3, Checked: false, Text: "add parser tests"},
				},
			},
		},
		{
			Path: "notes/todo.md",
			Result: checklist.FileResult{
				Path: "notes/todo.md", Title: "Todo", Completed: 2, Total: 2,
				Items: []checklist.Item{
					{Line: 1, Checked: true, Text: "book venue"},
					{Line: 2, Checked: true, Text: "send invites"},
				},
			},
		},
		{
			Path: "gone.md",
			Err:  &checklist.FileReadError{Path: "gone.md", Err: fs.ErrNotExist},
		},
	}
}

func newTestIndexes(t *testing.T) (*index.ResultIndex, *index.ItemIndex) {
	t.Helper()
	results := index.NewResultIndex("")
	items, err := index.NewItemIndex("")
	if err != nil {
		t.Fatalf("failed to create item index: %v", err)
	}
	t.Cleanup(func() { items.Close() })

	outcomes := testOutcomes()
	results.Replace(outcomes)
	for _, o := range outcomes {
		if o.OK() {
			if err := items.IndexFile(o.Result); err != nil {
				t.Fatalf("failed to index %s: %v", o.Path, err)
			}
		}
	}
	return results, items
}

var errBoom = errors.New("disk full")
