package inventory

import (
	"context"
	"fmt"
	"io"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/store"
)

// nextOrder returns an order placing a new image after the existing ones.
func nextOrder(images []model.ImageAsset) int {
	next := 0
	for _, img := range images {
		if o := img.SortOrder(); o >= next {
			next = o + 1
		}
	}
	return next
}

// AttachImage normalises a photo, stores it and attaches it to an item
// after its existing images.
func (s *Service) AttachImage(ctx context.Context, itemID string, r io.Reader) (*model.ImageAsset, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}

	asset, err := s.images.SaveImage(r)
	if err != nil {
		return nil, err
	}
	order := nextOrder(item.Images)
	asset.Order = &order

	err = store.WithTx(ctx, s.db, func(q store.Querier) error {
		return store.AddImage(ctx, q, itemID, asset)
	})
	if err != nil {
		s.images.Delete(asset.Filename)
		return nil, err
	}
	return asset, nil
}

// CreateItemWithPhotos normalises and stores every photo, then creates the
// item owning them. Nothing is left behind on failure: the item is only
// created once all photos are stored, and stored photos are deleted again
// when a later photo or the item itself fails.
func (s *Service) CreateItemWithPhotos(ctx context.Context, in ItemInput, photos []io.Reader) (*model.Item, error) {
	assets := make([]*model.ImageAsset, 0, len(photos))
	discard := func() {
		for _, a := range assets {
			s.images.Delete(a.Filename)
		}
	}

	for i, r := range photos {
		asset, err := s.images.SaveImage(r)
		if err != nil {
			discard()
			return nil, fmt.Errorf("photo %d: %w", i+1, err)
		}
		assets = append(assets, asset)
	}

	item, err := s.CreateItem(ctx, in, assets)
	if err != nil {
		discard()
		return nil, err
	}
	return item, nil
}

// AddImages attaches existing blobs to an item. A blob already owned by
// another asset, or listed twice, is cloned so every asset owns its own file.
func (s *Service) AddImages(ctx context.Context, itemID string, filenames []string) ([]*model.ImageAsset, error) {
	item, err := s.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	referenced, err := store.ReferencedFilenames(ctx, s.db)
	if err != nil {
		return nil, domainerrors.Persistence("loading image references", err)
	}

	order := nextOrder(item.Images)
	assets := make([]*model.ImageAsset, 0, len(filenames))
	var cloned []string
	for _, name := range filenames {
		if referenced[name] {
			clone, err := s.images.Clone(name)
			if err != nil {
				s.deleteBlobs(cloned)
				return nil, err
			}
			cloned = append(cloned, clone)
			name = clone
		}
		o := order
		order++
		assets = append(assets, &model.ImageAsset{Filename: name, Order: &o})
	}

	before := make(map[string]bool, len(assets))
	for _, a := range assets {
		before[a.Filename] = true
	}
	if err := s.images.Deduplicate(assets); err != nil {
		s.deleteBlobs(cloned)
		return nil, err
	}
	for _, a := range assets {
		if !before[a.Filename] {
			cloned = append(cloned, a.Filename)
		}
	}

	for _, a := range assets {
		sum, err := s.images.Checksum(a.Filename)
		if err != nil {
			s.deleteBlobs(cloned)
			return nil, err
		}
		a.Checksum = sum
	}

	err = store.WithTx(ctx, s.db, func(q store.Querier) error {
		for _, a := range assets {
			if err := store.AddImage(ctx, q, itemID, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.deleteBlobs(cloned)
		return nil, err
	}
	return assets, nil
}

// RemoveImage detaches an image from an item and deletes its blob.
func (s *Service) RemoveImage(ctx context.Context, itemID, imageID string) error {
	var removed *model.ImageAsset
	err := store.WithTx(ctx, s.db, func(q store.Querier) error {
		var err error
		removed, err = store.RemoveImage(ctx, q, itemID, imageID)
		if err != nil {
			return err
		}
		if removed == nil {
			return domainerrors.NotFound("image not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.images.Delete(removed.Filename)
	return nil
}

// PruneOrphans finds blobs no asset references and deletes them unless
// dryRun is set. Returns the orphaned names.
func (s *Service) PruneOrphans(ctx context.Context, dryRun bool) ([]string, error) {
	referenced, err := store.ReferencedFilenames(ctx, s.db)
	if err != nil {
		return nil, domainerrors.Persistence("loading image references", err)
	}

	orphans, err := s.images.Orphans(ctx, referenced)
	if err != nil {
		return nil, err
	}
	if !dryRun {
		s.deleteBlobs(orphans)
		s.logger.Info("pruned orphaned images", "count", len(orphans))
	}
	return orphans, nil
}
