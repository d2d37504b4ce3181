package index

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/lexandro/mdtick/checklist"
)

const defaultMaxResults = 50

// ItemIndex provides full-text search over checklist item text using a Bleve in-memory index.
type ItemIndex struct {
	mu      sync.RWMutex
	rootDir string
	index   bleve.Index
	// hits stores the item behind every document ID for result extraction
	hits map[string]ItemHit
	// docIDs lists the document IDs of each file, for removal
	docIDs map[string][]string
}

// ItemHit is one checklist item returned by a search.
type ItemHit struct {
	Path    string
	RelPath string // Path relative to the index root, forward slashes
	Title   string
	Item    checklist.Item
}

// NewItemIndex creates a new in-memory Bleve item index. Path globs are matched
// against paths relative to rootDir, the same way ResultIndex.Match does.
func NewItemIndex(rootDir string) (*ItemIndex, error) {
	bleveIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating bleve index: %w", err)
	}

	return &ItemIndex{
		rootDir: rootDir,
		index:   bleveIndex,
		hits:    make(map[string]ItemHit),
		docIDs:  make(map[string][]string),
	}, nil
}

// itemDocument is the document structure stored in Bleve.
type itemDocument struct {
	Text    string `json:"text"`
	Path    string `json:"path"`
	Title   string `json:"title"`
	Checked bool   `json:"checked"`
	Line    int    `json:"line"`
}

// buildIndexMapping creates the Bleve index mapping for checklist items.
func buildIndexMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Store = false
	textFieldMapping.IncludeInAll = true
	docMapping.AddFieldMappingsAt("text", textFieldMapping)

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Store = false
	titleFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	pathFieldMapping := bleve.NewKeywordFieldMapping()
	pathFieldMapping.Store = false
	pathFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("path", pathFieldMapping)

	checkedFieldMapping := bleve.NewBooleanFieldMapping()
	checkedFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("checked", checkedFieldMapping)

	lineFieldMapping := bleve.NewNumericFieldMapping()
	lineFieldMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt("line", lineFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

func documentID(path string, line int) string {
	return fmt.Sprintf("%s#%d", path, line)
}

// IndexFile replaces every item of result.Path with result.Items.
func (ii *ItemIndex) IndexFile(result checklist.FileResult) error {
	ii.mu.Lock()
	defer ii.mu.Unlock()

	batch := ii.index.NewBatch()
	for _, id := range ii.docIDs[result.Path] {
		batch.Delete(id)
		delete(ii.hits, id)
	}

	relPath := relativeTo(ii.rootDir, result.Path)
	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		id := documentID(result.Path, item.Line)
		doc := itemDocument{
			Text:    item.Text,
			Path:    result.Path,
			Title:   result.Title,
			Checked: item.Checked,
			Line:    item.Line,
		}
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("indexing item %s: %w", id, err)
		}
		ii.hits[id] = ItemHit{Path: result.Path, RelPath: relPath, Title: result.Title, Item: item}
		ids = append(ids, id)
	}

	if err := ii.index.Batch(batch); err != nil {
		return fmt.Errorf("indexing file %s: %w", result.Path, err)
	}
	if len(ids) == 0 {
		delete(ii.docIDs, result.Path)
	} else {
		ii.docIDs[result.Path] = ids
	}
	return nil
}

// RemoveFile removes every item of path from the search index.
func (ii *ItemIndex) RemoveFile(path string) error {
	ii.mu.Lock()
	defer ii.mu.Unlock()

	ids, ok := ii.docIDs[path]
	if !ok {
		return nil
	}
	batch := ii.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
		delete(ii.hits, id)
	}
	delete(ii.docIDs, path)

	if err := ii.index.Batch(batch); err != nil {
		return fmt.Errorf("removing file %s from index: %w", path, err)
	}
	return nil
}

// SearchOptions configures an item search.
type SearchOptions struct {
	Query       string
	PendingOnly bool
	PathGlob    string // doublestar pattern matched against the item's root-relative path
	MaxResults  int
}

// Search returns matching items ordered by path and line, plus the number of
// matches before MaxResults was applied.
// Query format:
//   - Plain text: match query (word-level matching)
//   - "quoted text": phrase query (exact phrase match)
//   - /regex/: regexp query
//   - empty: every item
func (ii *ItemIndex) Search(options SearchOptions) ([]ItemHit, int, error) {
	ii.mu.RLock()
	defer ii.mu.RUnlock()

	if options.MaxResults <= 0 {
		options.MaxResults = defaultMaxResults
	}

	pathGlob := strings.ReplaceAll(options.PathGlob, "\\", "/")
	if pathGlob != "" && !doublestar.ValidatePattern(pathGlob) {
		return nil, 0, fmt.Errorf("invalid glob pattern: %s", options.PathGlob)
	}

	bleveQuery := buildQuery(options.Query)
	if options.PendingOnly {
		pending := bleve.NewBoolFieldQuery(false)
		pending.SetField("checked")
		bleveQuery = bleve.NewConjunctionQuery(bleveQuery, pending)
	}

	count, err := ii.index.DocCount()
	if err != nil {
		return nil, 0, fmt.Errorf("counting documents: %w", err)
	}
	searchRequest := bleve.NewSearchRequest(bleveQuery)
	// Fetch every candidate; ordering and the glob filter are applied below
	searchRequest.Size = int(count)

	searchResults, err := ii.index.Search(searchRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("searching index: %w", err)
	}

	var hits []ItemHit
	for _, hit := range searchResults.Hits {
		itemHit, ok := ii.hits[hit.ID]
		if !ok {
			continue
		}
		if pathGlob != "" {
			matched, matchErr := doublestar.Match(pathGlob, itemHit.RelPath)
			if matchErr != nil || !matched {
				continue
			}
		}
		hits = append(hits, itemHit)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Path != hits[j].Path {
			return hits[i].Path < hits[j].Path
		}
		return hits[i].Item.Line < hits[j].Item.Line
	})

	total := len(hits)
	if len(hits) > options.MaxResults {
		hits = hits[:options.MaxResults]
	}
	return hits, total, nil
}

// buildQuery parses the query string into a Bleve query on the item text.
func buildQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)

	if queryString == "" {
		return bleve.NewMatchAllQuery()
	}

	// Regex query: /pattern/
	if strings.HasPrefix(queryString, "/") && strings.HasSuffix(queryString, "/") && len(queryString) > 2 {
		regexQuery := bleve.NewRegexpQuery(queryString[1 : len(queryString)-1])
		regexQuery.SetField("text")
		return regexQuery
	}

	// Phrase query: "exact phrase"
	if strings.HasPrefix(queryString, "\"") && strings.HasSuffix(queryString, "\"") && len(queryString) > 2 {
		phraseQuery := bleve.NewMatchPhraseQuery(queryString[1 : len(queryString)-1])
		phraseQuery.SetField("text")
		return phraseQuery
	}

	// Default: match query (word-level)
	matchQuery := bleve.NewMatchQuery(queryString)
	matchQuery.SetField("text")
	return matchQuery
}

// DocumentCount returns the number of items in the Bleve index.
func (ii *ItemIndex) DocumentCount() uint64 {
	ii.mu.RLock()
	defer ii.mu.RUnlock()
	count, _ := ii.index.DocCount()
	return count
}

// Close closes the Bleve index.
func (ii *ItemIndex) Close() error {
	ii.mu.Lock()
	defer ii.mu.Unlock()
	return ii.index.Close()
}

// Clear removes all documents and recreates the index.
func (ii *ItemIndex) Clear() error {
	ii.mu.Lock()
	defer ii.mu.Unlock()

	if err := ii.index.Close(); err != nil {
		return fmt.Errorf("closing old index: %w", err)
	}

	newIndex, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating new index: %w", err)
	}

	ii.index = newIndex
	ii.hits = make(map[string]ItemHit)
	ii.docIDs = make(map[string][]string)
	return nil
}
