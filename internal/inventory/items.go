package inventory

import (
	"context"
	"fmt"
	"strings"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/store"
)

// resolveTags returns the IDs of the named tags, creating missing ones.
func resolveTags(ctx context.Context, q store.Querier, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		t, err := store.GetOrCreateTag(ctx, q, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// CreateItem validates in and creates an item owning the given image assets.
// Assets sharing a blob are given their own copies first. If the item is
// not created those copies are deleted again; the given blobs stay.
func (s *Service) CreateItem(ctx context.Context, in ItemInput, images []*model.ImageAsset) (*model.Item, error) {
	in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	given := make(map[string]bool, len(images))
	for _, img := range images {
		given[img.Filename] = true
	}
	if err := s.images.Deduplicate(images); err != nil {
		return nil, err
	}

	item := &model.Item{
		Name:       in.Name,
		Quantity:   in.Quantity,
		CategoryID: in.CategoryID,
		Fields:     in.fields(),
		IsFavorite: in.IsFavorite,
	}
	for i, img := range images {
		if img.Order == nil {
			order := i
			img.Order = &order
		}
		item.Images = append(item.Images, *img)
	}

	err := store.WithTx(ctx, s.db, func(q store.Querier) error {
		tagIDs, err := resolveTags(ctx, q, in.Tags)
		if err != nil {
			return err
		}
		item.TagIDs = tagIDs
		return store.CreateItem(ctx, q, item)
	})
	if err != nil {
		var clones []string
		for _, img := range images {
			if !given[img.Filename] {
				clones = append(clones, img.Filename)
			}
		}
		s.deleteBlobs(clones)
		return nil, err
	}

	s.logger.Info("item created", "id", item.ID, "name", item.Name)
	return item, nil
}

// UpdateItem replaces an item's editable state. Images are kept.
func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) (*model.Item, error) {
	in.normalize()
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	var item *model.Item
	err := store.WithTx(ctx, s.db, func(q store.Querier) error {
		var err error
		item, err = store.GetItem(ctx, q, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domainerrors.NotFound("item not found")
		}

		tagIDs, err := resolveTags(ctx, q, in.Tags)
		if err != nil {
			return err
		}

		item.Name = in.Name
		item.Quantity = in.Quantity
		item.CategoryID = in.CategoryID
		item.Fields = in.fields()
		item.TagIDs = tagIDs
		item.IsFavorite = in.IsFavorite
		return store.UpdateItem(ctx, q, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated", "id", item.ID)
	return item, nil
}

// DeleteItem deletes an item and then the blobs of its images.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	var filenames []string
	err := store.WithTx(ctx, s.db, func(q store.Querier) error {
		var err error
		filenames, err = store.DeleteItem(ctx, q, id)
		return err
	})
	if err != nil {
		return err
	}

	s.deleteBlobs(filenames)
	s.logger.Info("item deleted", "id", id, "images", len(filenames))
	return nil
}

// Get returns an item without recording an access.
func (s *Service) Get(ctx context.Context, id string) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.Persistence("loading item", err)
	}
	if item == nil {
		return nil, domainerrors.NotFound("item not found")
	}
	return item, nil
}

// ResolveItem finds an item by ID or by a suffix of its ID that matches
// exactly one item.
func (s *Service) ResolveItem(ctx context.Context, ref string) (*model.Item, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, domainerrors.Validation("item reference required")
	}
	item, err := store.GetItem(ctx, s.db, ref)
	if err != nil {
		return nil, domainerrors.Persistence("loading item", err)
	}
	if item != nil {
		return item, nil
	}

	items, err := store.ListItems(ctx, s.db)
	if err != nil {
		return nil, domainerrors.Persistence("loading items", err)
	}
	var match *model.Item
	for i := range items {
		if !strings.HasSuffix(items[i].ID, ref) {
			continue
		}
		if match != nil {
			return nil, domainerrors.Conflict(fmt.Sprintf("item reference %q is ambiguous", ref))
		}
		match = &items[i]
	}
	if match == nil {
		return nil, domainerrors.NotFoundf("item %q not found", ref)
	}
	return match, nil
}

// View returns an item and records the access. A failure to record the
// access is logged and does not fail the view.
func (s *Service) View(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	if err := store.RecordAccess(ctx, s.db, id, at); err != nil {
		s.logger.Warn("recording item access", "id", id, "error", err)
		return item, nil
	}
	item.AccessCount++
	item.LastAccessedAt = &at
	return item, nil
}

// SetFavorite marks or unmarks an item as favorite.
func (s *Service) SetFavorite(ctx context.Context, id string, favorite bool) error {
	return store.SetFavorite(ctx, s.db, id, favorite)
}

// AdjustQuantity changes an item's quantity by delta and returns the result.
func (s *Service) AdjustQuantity(ctx context.Context, id string, delta int) (int, error) {
	var qty int
	err := store.WithTx(ctx, s.db, func(q store.Querier) error {
		var err error
		qty, err = store.AdjustQuantity(ctx, q, id, delta)
		return err
	})
	return qty, err
}
