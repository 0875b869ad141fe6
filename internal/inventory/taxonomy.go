package inventory

import (
	"context"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/store"
)

// CreateCategory validates in and creates a category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	in.Name = model.NormalizeName(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	c, err := store.CreateCategory(ctx, s.db, in.Name, in.ParentID, false)
	if err != nil {
		return nil, err
	}
	s.logger.Info("category created", "id", c.ID, "name", c.Name)
	return c, nil
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := store.ListCategories(ctx, s.db)
	if err != nil {
		return nil, domainerrors.Persistence("loading categories", err)
	}
	return categories, nil
}

// ResolveCategory finds a category by ID or, failing that, by name.
func (s *Service) ResolveCategory(ctx context.Context, ref string) (*model.Category, error) {
	c, err := store.GetCategory(ctx, s.db, ref)
	if err != nil {
		return nil, domainerrors.Persistence("loading category", err)
	}
	if c == nil {
		if c, err = store.GetCategoryByName(ctx, s.db, ref); err != nil {
			return nil, domainerrors.Persistence("loading category", err)
		}
	}
	if c == nil {
		return nil, domainerrors.NotFoundf("category %q not found", ref)
	}
	return c, nil
}

// RenameCategory renames a category.
func (s *Service) RenameCategory(ctx context.Context, id, name string) error {
	return store.RenameCategory(ctx, s.db, id, name)
}

// MoveCategory places a category under parentID, or at the root when empty.
func (s *Service) MoveCategory(ctx context.Context, id, parentID string) error {
	return store.WithTx(ctx, s.db, func(q store.Querier) error {
		return store.SetCategoryParent(ctx, q, id, parentID)
	})
}

// DeleteCategory deletes a category no item references.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	err := store.WithTx(ctx, s.db, func(q store.Querier) error {
		return store.DeleteCategory(ctx, q, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("category deleted", "id", id)
	return nil
}

// CreateTag validates in and creates a tag.
func (s *Service) CreateTag(ctx context.Context, in TagInput) (*model.Tag, error) {
	in.Name = model.NormalizeName(in.Name)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return store.CreateTag(ctx, s.db, in.Name)
}

// ListTags returns all tags ordered by name.
func (s *Service) ListTags(ctx context.Context) ([]model.Tag, error) {
	tags, err := store.ListTags(ctx, s.db)
	if err != nil {
		return nil, domainerrors.Persistence("loading tags", err)
	}
	return tags, nil
}

// DeleteTag deletes a tag by ID or name. Items keep everything but the link.
func (s *Service) DeleteTag(ctx context.Context, ref string) error {
	tags, err := s.ListTags(ctx)
	if err != nil {
		return err
	}
	for _, t := range tags {
		if t.ID == ref || t.Name == model.NormalizeName(ref) {
			return store.DeleteTag(ctx, s.db, t.ID)
		}
	}
	return domainerrors.NotFoundf("tag %q not found", ref)
}
