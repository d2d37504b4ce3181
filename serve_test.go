package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lexandro/mdtick/checklist"
	"github.com/lexandro/mdtick/index"
	"github.com/lexandro/mdtick/source"
	"github.com/lexandro/mdtick/watcher"
)

func newTestTracker(t *testing.T, inputs ...string) *tracker {
	t.Helper()
	items, err := index.NewItemIndex("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { items.Close() })
	scanner, err := checklist.NewCachingScanner(checklist.NewScanner(checklist.Options{CollectItems: true}), 0)
	if err != nil {
		t.Fatal(err)
	}

	return &tracker{
		inputs:   inputs,
		resolver: &source.Resolver{Logger: testLogger()},
		scanner:  scanner,
		results:  index.NewResultIndex(""),
		items:    items,
		logger:   testLogger(),
	}
}

func Test_Tracker_Rescan(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.md"), "- [x] one\n- [ ] two\n")
	missing := filepath.Join(tmpDir, "missing.md")
	tr := newTestTracker(t, tmpDir, missing)

	summary, err := tr.rescan()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Files != 2 || summary.Failed != 1 || summary.Items != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
	if tr.items.DocumentCount() != 2 {
		t.Errorf("expected 2 indexed items, got %d", tr.items.DocumentCount())
	}
	if tr.results.Count() != 2 {
		t.Errorf("expected 2 tracked files, got %d", tr.results.Count())
	}
}

func Test_Tracker_ApplyUpdatesTrackedFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, filepath.Join(tmpDir, "a.md"), "- [ ] one\n")
	tr := newTestTracker(t, path)
	tr.rescan()

	os.WriteFile(path, []byte("- [x] one\n- [ ] two\n"), 0644)
	abs, _ := filepath.Abs(path)
	tr.apply([]watcher.DebouncedEvent{{Path: abs, Op: watcher.OpWrite}})

	o, ok := tr.results.Get(path)
	if !ok || o.Result.Completed != 1 || o.Result.Total != 2 {
		t.Errorf("expected 1/2 after update, got %+v", o)
	}
	hits, _, _ := tr.items.Search(index.SearchOptions{Query: "two"})
	if len(hits) != 1 {
		t.Errorf("expected the new item to be searchable, got %d hits", len(hits))
	}
}

func Test_Tracker_ApplyNewFileRescans(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.md"), "- [ ] one\n")
	tr := newTestTracker(t, tmpDir)
	tr.rescan()

	added := writeFile(t, filepath.Join(tmpDir, "b.md"), "- [ ] fresh task\n")
	tr.apply([]watcher.DebouncedEvent{{Path: added, Op: watcher.OpCreate}})

	if tr.results.Count() != 2 {
		t.Errorf("expected the new file to be tracked, got %d files", tr.results.Count())
	}
}

func Test_Tracker_ApplyRemovalRescans(t *testing.T) {
	tmpDir := t.TempDir()
	a := writeFile(t, filepath.Join(tmpDir, "a.md"), "- [ ] one\n")
	writeFile(t, filepath.Join(tmpDir, "b.md"), "- [ ] two\n")
	tr := newTestTracker(t, tmpDir)
	tr.rescan()

	os.Remove(a)
	tr.apply([]watcher.DebouncedEvent{{Path: a, Op: watcher.OpRemove}})

	if tr.results.Count() != 1 {
		t.Errorf("expected the removed file to be dropped, got %d files", tr.results.Count())
	}
	if tr.items.DocumentCount() != 1 {
		t.Errorf("expected 1 remaining item, got %d", tr.items.DocumentCount())
	}
}

func Test_Tracker_ApplyIgnoreFileReloadsFilter(t *testing.T) {
	tmpDir := t.TempDir()
	plan := writeFile(t, filepath.Join(tmpDir, "plan.md"), "- [ ] one\n")
	hidden := writeFile(t, filepath.Join(tmpDir, "hidden.md"), "- [ ] secret\n")
	ignoreFile := writeFile(t, filepath.Join(tmpDir, ".mdtickignore"), "hidden.md\n")
	tr := newTestTracker(t, plan)
	tr.filter = newWatchFilter(tmpDir, nil)
	tr.rescan()

	if !tr.filter.ShouldIgnore(hidden) {
		t.Fatal("expected hidden.md to be filtered before the ignore file changes")
	}

	os.WriteFile(ignoreFile, []byte("\n"), 0644)
	tr.apply([]watcher.DebouncedEvent{{Path: ignoreFile, Op: watcher.OpWrite}})

	if tr.filter.ShouldIgnore(hidden) {
		t.Error("expected hidden.md to pass the filter after the ignore rules changed")
	}
	if tr.results.Count() != 1 {
		t.Errorf("expected the tracked inputs to be rescanned, got %d files", tr.results.Count())
	}
}
