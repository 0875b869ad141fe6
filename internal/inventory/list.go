package inventory

import (
	"context"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/listing"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/search"
	"github.com/erazemk/itemize/internal/store"
)

// ListResult is a rendered item list.
type ListResult struct {
	Sections []listing.Section `json:"sections"`
	Summary  listing.Summary   `json:"summary"`
	Lookup   *model.Lookup     `json:"-"`
}

func (s *Service) loadAll(ctx context.Context) ([]model.Item, *model.Lookup, error) {
	items, err := store.ListItems(ctx, s.db)
	if err != nil {
		return nil, nil, domainerrors.Persistence("loading items", err)
	}
	lookup, err := s.Lookup(ctx)
	if err != nil {
		return nil, nil, err
	}
	return items, lookup, nil
}

// List renders every item through the filter, sort and group pipeline.
func (s *Service) List(ctx context.Context, q listing.Query) (*ListResult, error) {
	items, lookup, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Sections: listing.Render(items, lookup, q),
		Summary:  listing.Summarize(items, lookup, q),
		Lookup:   lookup,
	}, nil
}

// Find returns the items best matching text, tolerating small typos,
// best match first.
func (s *Service) Find(ctx context.Context, text string, limit int) ([]model.Item, error) {
	items, lookup, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	index, err := search.New(s.logger)
	if err != nil {
		return nil, err
	}
	defer index.Close()

	if err := index.Rebuild(items, lookup); err != nil {
		return nil, err
	}
	hits, err := index.Find(ctx, text, limit)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	found := make([]model.Item, 0, len(hits))
	for _, h := range hits {
		if it, ok := byID[h.ID]; ok {
			found = append(found, it)
		}
	}
	return found, nil
}
