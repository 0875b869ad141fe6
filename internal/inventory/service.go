// Package inventory implements the flows a client drives: editing items,
// their photos, categories and tags, and rendering the item list.
package inventory

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/imagestore"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/store"
	"github.com/erazemk/itemize/internal/validation"
)

// Service coordinates the entity store and the image folder.
type Service struct {
	db        *sql.DB
	images    *imagestore.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewService returns a Service. A nil logger uses slog.Default().
func NewService(db *sql.DB, images *imagestore.Store, v *validation.Validator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if v == nil {
		v = validation.New()
	}
	return &Service{
		db:        db,
		images:    images,
		validator: v,
		logger:    logger,
		now:       time.Now,
	}
}

// Lookup loads every category and tag for resolving item references.
func (s *Service) Lookup(ctx context.Context) (*model.Lookup, error) {
	categories, err := store.ListCategories(ctx, s.db)
	if err != nil {
		return nil, domainerrors.Persistence("loading categories", err)
	}
	tags, err := store.ListTags(ctx, s.db)
	if err != nil {
		return nil, domainerrors.Persistence("loading tags", err)
	}
	return model.NewLookup(categories, tags), nil
}

// deleteBlobs removes blobs no longer owned by any asset. Failures are
// logged by the image store.
func (s *Service) deleteBlobs(names []string) {
	for _, name := range names {
		s.images.Delete(name)
	}
}
