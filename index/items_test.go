package index

import (
	"path/filepath"
	"testing"

	"github.com/lexandro/mdtick/checklist"
)

func newTestItemIndex(t *testing.T) *ItemIndex {
	t.Helper()
	ii, err := NewItemIndex("")
	if err != nil {
		t.Fatalf("failed to create item index: %v", err)
	}
	t.Cleanup(func() { ii.Close() })
	return ii
}

func planResult() checklist.FileResult {
	return checklist.FileResult{
		Path:      "docs/plan.md",
		Title:     "Plan",
		Completed: 1,
		Total:     3,
		Items: []checklist.Item{
			{Line: 3, Checked: true, Text: "write the parser"},
			{Line: 4, Checked: false, Text: "add parser tests"},
			{Line: 5, Checked: false, Text: "ship release notes"},
		},
	}
}

func Test_ItemIndex_IndexAndSearch(t *testing.T) {
	ii := newTestItemIndex(t)
	if err := ii.IndexFile(planResult()); err != nil {
		t.Fatalf("failed to index file: %v", err)
	}

	hits, total, err := ii.Search(SearchOptions{Query: "parser"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if total != 2 || len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d (total %d)", len(hits), total)
	}
	if hits[0].Item.Line != 3 || hits[1].Item.Line != 4 {
		t.Errorf("expected hits ordered by line, got %d and %d", hits[0].Item.Line, hits[1].Item.Line)
	}
	if hits[0].Path != "docs/plan.md" || hits[0].Title != "Plan" {
		t.Errorf("unexpected hit: %+v", hits[0])
	}
}

func Test_ItemIndex_PendingOnly(t *testing.T) {
	ii := newTestItemIndex(t)
	ii.IndexFile(planResult())

	hits, _, err := ii.Search(SearchOptions{Query: "parser", PendingOnly: true})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(hits) != 1 || hits[0].Item.Text != "add parser tests" {
		t.Errorf("expected only the pending item, got %+v", hits)
	}

	all, _, _ := ii.Search(SearchOptions{PendingOnly: true})
	if len(all) != 2 {
		t.Errorf("expected 2 pending items for an empty query, got %d", len(all))
	}
}

func Test_ItemIndex_PhraseAndRegex(t *testing.T) {
	ii := newTestItemIndex(t)
	ii.IndexFile(planResult())

	phrase, _, err := ii.Search(SearchOptions{Query: `"release notes"`})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(phrase) != 1 || phrase[0].Item.Line != 5 {
		t.Errorf("expected phrase match on line 5, got %+v", phrase)
	}

	regex, _, err := ii.Search(SearchOptions{Query: "/pars.*/"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(regex) != 2 {
		t.Errorf("expected 2 regex matches, got %d", len(regex))
	}
}

func Test_ItemIndex_ReindexReplacesItems(t *testing.T) {
	ii := newTestItemIndex(t)
	ii.IndexFile(planResult())

	updated := planResult()
	updated.Items = []checklist.Item{{Line: 2, Checked: true, Text: "everything done"}}
	if err := ii.IndexFile(updated); err != nil {
		t.Fatalf("failed to reindex: %v", err)
	}

	if ii.DocumentCount() != 1 {
		t.Errorf("expected 1 document after reindex, got %d", ii.DocumentCount())
	}
	hits, _, _ := ii.Search(SearchOptions{Query: "parser"})
	if len(hits) != 0 {
		t.Errorf("expected stale items to be gone, got %+v", hits)
	}
}

func Test_ItemIndex_RemoveFile(t *testing.T) {
	ii := newTestItemIndex(t)
	ii.IndexFile(planResult())

	if err := ii.RemoveFile("docs/plan.md"); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if err := ii.RemoveFile("never-indexed.md"); err != nil {
		t.Fatalf("unexpected error for unknown file: %v", err)
	}

	if ii.DocumentCount() != 0 {
		t.Errorf("expected empty index, got %d documents", ii.DocumentCount())
	}
}

func Test_ItemIndex_PathGlobAndMaxResults(t *testing.T) {
	ii := newTestItemIndex(t)
	ii.IndexFile(planResult())
	ii.IndexFile(checklist.FileResult{
		Path:  "notes/todo.md",
		Title: "Todo",
		Items: []checklist.Item{{Line: 1, Text: "parser benchmarks"}},
	})

	hits, total, err := ii.Search(SearchOptions{Query: "parser", PathGlob: "notes/**"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if total != 1 || hits[0].Path != "notes/todo.md" {
		t.Errorf("expected the notes hit only, got %+v", hits)
	}

	limited, total, _ := ii.Search(SearchOptions{Query: "parser", MaxResults: 2})
	if len(limited) != 2 || total != 3 {
		t.Errorf("expected 2 of 3 hits, got %d of %d", len(limited), total)
	}

	if _, _, err := ii.Search(SearchOptions{Query: "parser", PathGlob: "[bad"}); err == nil {
		t.Error("expected error for invalid glob")
	}
}

func Test_ItemIndex_PathGlobMatchesRootRelativePath(t *testing.T) {
	rootDir := t.TempDir()
	ii, err := NewItemIndex(rootDir)
	if err != nil {
		t.Fatalf("failed to create item index: %v", err)
	}
	t.Cleanup(func() { ii.Close() })

	plan := planResult()
	plan.Path = filepath.Join(rootDir, "docs", "plan.md")
	ii.IndexFile(plan)

	results := NewResultIndex(rootDir)
	results.Replace([]checklist.Outcome{{Path: plan.Path, Result: plan}})
	files, _ := results.Match("docs/**")

	hits, _, err := ii.Search(SearchOptions{Query: "parser", PathGlob: "docs/**"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(files) != 1 || len(hits) != 2 {
		t.Errorf("expected the same glob to select the file in both indexes, got %d files and %d hits", len(files), len(hits))
	}
	if len(hits) > 0 && (hits[0].Path != plan.Path || hits[0].RelPath != "docs/plan.md") {
		t.Errorf("unexpected hit paths: %+v", hits[0])
	}
}

func Test_ItemIndex_Clear(t *testing.T) {
	ii := newTestItemIndex(t)
	ii.IndexFile(planResult())

	if err := ii.Clear(); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	if ii.DocumentCount() != 0 {
		t.Errorf("expected 0 documents, got %d", ii.DocumentCount())
	}
}
