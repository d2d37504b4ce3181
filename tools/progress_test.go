package tools

import (
	"context"
	"strings"
	"testing"
)

func newTestProgressHandler(t *testing.T) *ProgressHandler {
	t.Helper()
	results, _ := newTestIndexes(t)
	return &ProgressHandler{Results: results, Logger: testLogger()}
}

func Test_ProgressHandler_TableByDefault(t *testing.T) {
	h := newTestProgressHandler(t)

	result, _, err := h.Handle(context.Background(), nil, ProgressArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	text := resultText(t, result)
	for _, want := range []string{"Completed", "Plan", "50%", "Todo", "100%", "file not found", "All files", "75%"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in output, got:\n%s", want, text)
		}
	}
}

func Test_ProgressHandler_PatternAndBars(t *testing.T) {
	h := newTestProgressHandler(t)

	result, _, err := h.Handle(context.Background(), nil, ProgressArgs{Pattern: "docs/**", View: "bars"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Plan") || !strings.Contains(text, "1/2") {
		t.Errorf("expected the plan bar, got:\n%s", text)
	}
	if strings.Contains(text, "Todo") || strings.Contains(text, "Completed") {
		t.Errorf("expected only the matching file as bars, got:\n%s", text)
	}
}

func Test_ProgressHandler_NoMatch(t *testing.T) {
	h := newTestProgressHandler(t)

	result, _, _ := h.Handle(context.Background(), nil, ProgressArgs{Pattern: "missing/**"})

	if result.IsError || resultText(t, result) != "No tracked files matched." {
		t.Errorf("unexpected result: %+v", result)
	}
}

func Test_ProgressHandler_InvalidInput(t *testing.T) {
	h := newTestProgressHandler(t)

	result, _, _ := h.Handle(context.Background(), nil, ProgressArgs{View: "pie"})
	if !result.IsError {
		t.Error("expected error for unknown view")
	}

	result, _, _ = h.Handle(context.Background(), nil, ProgressArgs{Pattern: "[bad"})
	if !result.IsError {
		t.Error("expected error for invalid pattern")
	}
}
