// Package search finds items by approximate text, tolerating small typos.
//
// The index lives in memory and is rebuilt from the item collection before a
// lookup session; the database stays the source of truth.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/erazemk/itemize/internal/model"
)

// DefaultLimit caps results when Find is given a non-positive limit.
const DefaultLimit = 20

// Hit is one matching item.
type Hit struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Index is an in-memory item index.
type Index struct {
	index  bleve.Index
	logger *slog.Logger
}

// New returns an empty index. A nil logger uses slog.Default().
func New(logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	return &Index{index: index, logger: logger}, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.index.Close()
}

func document(it model.Item, lookup *model.Lookup) map[string]any {
	fields := make([]string, 0, 2*len(it.Fields))
	for _, f := range it.Fields {
		fields = append(fields, f.Key, f.Value)
	}
	return map[string]any{
		fieldName:     it.Name,
		fieldFields:   strings.Join(fields, " "),
		fieldTags:     strings.Join(lookup.TagNames(it.TagIDs), " "),
		fieldCategory: lookup.Breadcrumb(it.CategoryID),
	}
}

// Rebuild replaces the index contents with items.
func (ix *Index) Rebuild(items []model.Item, lookup *model.Lookup) error {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("creating search index: %w", err)
	}

	batch := index.NewBatch()
	for _, it := range items {
		if err := batch.Index(it.ID, document(it, lookup)); err != nil {
			index.Close()
			return fmt.Errorf("indexing item %s: %w", it.ID, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		index.Close()
		return fmt.Errorf("indexing items: %w", err)
	}

	old := ix.index
	ix.index = index
	if err := old.Close(); err != nil {
		ix.logger.Warn("closing previous search index", "error", err)
	}
	ix.logger.Debug("rebuilt search index", "items", len(items))
	return nil
}

func buildQuery(text string) query.Query {
	name := bleve.NewMatchQuery(text)
	name.SetField(fieldName)
	name.SetBoost(3.0)

	fuzzyName := bleve.NewMatchQuery(text)
	fuzzyName.SetField(fieldName)
	fuzzyName.SetFuzziness(1)
	fuzzyName.SetBoost(1.5)

	queries := []query.Query{name, fuzzyName}
	for _, f := range []string{fieldFields, fieldTags, fieldCategory} {
		q := bleve.NewMatchQuery(text)
		q.SetField(f)
		q.SetFuzziness(1)
		queries = append(queries, q)
	}

	if len(text) >= 2 && !strings.ContainsAny(text, " \t") {
		prefix := bleve.NewPrefixQuery(strings.ToLower(text))
		prefix.SetField(fieldName)
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}

// Find returns the items best matching text, best first.
func (ix *Index) Find(ctx context.Context, text string, limit int) ([]Hit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	req := bleve.NewSearchRequestOptions(buildQuery(text), limit, 0, false)
	req.Fields = []string{fieldName}

	result, err := ix.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("executing search: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		name, _ := h.Fields[fieldName].(string)
		hits = append(hits, Hit{ID: h.ID, Name: name, Score: h.Score})
	}
	return hits, nil
}
