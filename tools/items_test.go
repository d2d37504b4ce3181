package tools

import (
	"context"
	"strings"
	"testing"
)

func newTestItemsHandler(t *testing.T) *ItemsHandler {
	t.Helper()
	results, _ := newTestIndexes(t)
	return &ItemsHandler{Results: results, Logger: testLogger()}
}

func Test_ItemsHandler_ListsItems(t *testing.T) {
	h := newTestItemsHandler(t)

	result, _, err := h.Handle(context.Background(), nil, ItemsArgs{Path: "docs/plan.md"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "2: [x] write the parser") || !strings.Contains(text, "3: [ ] add parser tests") {
		t.Errorf("expected both items, got:\n%s", text)
	}
}

func Test_ItemsHandler_EmptyPath(t *testing.T) {
	h := newTestItemsHandler(t)

	result, _, _ := h.Handle(context.Background(), nil, ItemsArgs{})

	if !result.IsError || !strings.Contains(resultText(t, result), "path parameter is required") {
		t.Errorf("expected required-path error, got %+v", result)
	}
}

func Test_ItemsHandler_UntrackedFile(t *testing.T) {
	h := newTestItemsHandler(t)

	result, _, _ := h.Handle(context.Background(), nil, ItemsArgs{Path: "other.md"})

	if !result.IsError || !strings.Contains(resultText(t, result), "File not tracked: other.md") {
		t.Errorf("expected not-tracked error, got %+v", result)
	}
}

func Test_ItemsHandler_UnreadableFile(t *testing.T) {
	h := newTestItemsHandler(t)

	result, _, _ := h.Handle(context.Background(), nil, ItemsArgs{Path: "gone.md"})

	if !result.IsError || !strings.Contains(resultText(t, result), "file not found") {
		t.Errorf("expected read error, got %+v", result)
	}
}
