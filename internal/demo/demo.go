// Package demo seeds sample data on first launch and removes it on request.
package demo

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/prefs"
	"github.com/erazemk/itemize/internal/store"
)

// BlobDeleter removes image blobs. Deletion is best effort.
type BlobDeleter interface {
	Delete(name string)
}

// Manager owns the demo data lifecycle of one store.
type Manager struct {
	db     *sql.DB
	prefs  *prefs.Prefs
	blobs  BlobDeleter
	logger *slog.Logger
}

// NewManager returns a Manager. A nil logger uses slog.Default().
func NewManager(db *sql.DB, p *prefs.Prefs, blobs BlobDeleter, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{db: db, prefs: p, blobs: blobs, logger: logger}
}

// PurgeReport counts what Purge removed and kept.
type PurgeReport struct {
	ItemsDeleted      int `json:"items_deleted"`
	BlobsDeleted      int `json:"blobs_deleted"`
	CategoriesDeleted int `json:"categories_deleted"`
	CategoriesKept    int `json:"categories_kept"`
}

// Status describes the demo state of the store.
type Status struct {
	Seeded         bool `json:"seeded"`
	Active         bool `json:"active"`
	DemoItems      int  `json:"demo_items"`
	DemoCategories int  `json:"demo_categories"`
}

// SeedIfEmpty inserts the demo catalog when the store has no items and
// reports whether anything was inserted. Everything is inserted in one
// transaction. A catalog category whose name is already taken is reused
// as is.
func (m *Manager) SeedIfEmpty(ctx context.Context) (bool, error) {
	inserted := false
	err := store.WithTx(ctx, m.db, func(q store.Querier) error {
		exists, err := store.AnyItemExists(ctx, q)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		categoryIDs := make(map[string]string, len(catalogCategories))
		for _, name := range catalogCategories {
			c, err := store.GetCategoryByName(ctx, q, name)
			if err != nil {
				return err
			}
			if c == nil {
				c, err = store.CreateCategory(ctx, q, name, "", true)
				if err != nil {
					return err
				}
			}
			categoryIDs[name] = c.ID
		}

		for _, ci := range catalogItems {
			item := &model.Item{
				Name:       ci.Name,
				Quantity:   ci.Quantity,
				CategoryID: categoryIDs[ci.Category],
				IsDemo:     true,
			}
			for _, f := range ci.Fields {
				item.Fields = append(item.Fields, model.DynamicField{Key: f[0], Value: f[1]})
			}
			if err := store.CreateItem(ctx, q, item); err != nil {
				return err
			}
		}

		inserted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("seeding demo data: %w", err)
	}

	if inserted {
		m.logger.Info("seeded demo data", "categories", len(catalogCategories), "items", len(catalogItems))
	}
	return inserted, nil
}

// EnsureSeeded runs SeedIfEmpty once per store. The seeded flag is only set
// after a successful seed, so a failed attempt is retried on the next call.
func (m *Manager) EnsureSeeded(ctx context.Context) (bool, error) {
	seeded, err := m.prefs.HasSeededDemo(ctx)
	if err != nil {
		return false, err
	}
	if seeded {
		return false, nil
	}

	inserted, err := m.SeedIfEmpty(ctx)
	if err != nil {
		m.logger.Error("demo seed failed, will retry on next start", "error", err)
		return false, err
	}

	if err := m.prefs.SetSeededDemo(ctx, true); err != nil {
		return inserted, err
	}
	if inserted {
		if err := m.prefs.SetDemoActive(ctx, true); err != nil {
			return inserted, err
		}
	}
	return inserted, nil
}

// Seed inserts the demo catalog on request, regardless of whether a seed
// ran before. It only inserts into an empty store, and marks the store as
// seeded and demo active when it does.
func (m *Manager) Seed(ctx context.Context) (bool, error) {
	inserted, err := m.SeedIfEmpty(ctx)
	if err != nil || !inserted {
		return inserted, err
	}
	if err := m.prefs.SetSeededDemo(ctx, true); err != nil {
		return inserted, err
	}
	return inserted, m.prefs.SetDemoActive(ctx, true)
}

// Purge removes demo data in two committed phases.
//
// Phase one deletes every demo item in one transaction and, once it has
// committed, the blobs those items owned. Phase two re-reads the
// remaining items and deletes every demo category none of them references;
// a demo category the user assigned to their own item survives. Phase two
// runs even if phase one failed, and both errors are returned joined.
func (m *Manager) Purge(ctx context.Context) (PurgeReport, error) {
	var report PurgeReport
	var errs []error

	var filenames []string
	err := store.WithTx(ctx, m.db, func(q store.Querier) error {
		items, err := store.ListDemoItems(ctx, q)
		if err != nil {
			return err
		}
		for _, it := range items {
			names, err := store.DeleteItem(ctx, q, it.ID)
			if err != nil {
				return err
			}
			filenames = append(filenames, names...)
			report.ItemsDeleted++
		}
		return nil
	})
	phaseOne := err == nil
	if phaseOne {
		for _, name := range filenames {
			m.blobs.Delete(name)
		}
		report.BlobsDeleted = len(filenames)
	} else {
		report.ItemsDeleted = 0
		errs = append(errs, fmt.Errorf("purging demo items: %w", err))
	}

	err = store.WithTx(ctx, m.db, func(q store.Querier) error {
		items, err := store.ListItems(ctx, q)
		if err != nil {
			return err
		}
		inUse := make(map[string]bool)
		for _, it := range items {
			if it.CategoryID != "" {
				inUse[it.CategoryID] = true
			}
		}

		categories, err := store.ListDemoCategories(ctx, q)
		if err != nil {
			return err
		}
		for _, c := range categories {
			if inUse[c.ID] {
				report.CategoriesKept++
				continue
			}
			if err := store.ForceDeleteCategory(ctx, q, c.ID); err != nil {
				return err
			}
			report.CategoriesDeleted++
		}
		return nil
	})
	if err != nil {
		report.CategoriesDeleted = 0
		errs = append(errs, fmt.Errorf("purging demo categories: %w", err))
	}

	if phaseOne {
		if err := m.prefs.SetDemoActive(ctx, false); err != nil {
			errs = append(errs, err)
		}
	}

	m.logger.Info("purged demo data",
		"items", report.ItemsDeleted,
		"blobs", report.BlobsDeleted,
		"categories", report.CategoriesDeleted,
		"categories_kept", report.CategoriesKept,
	)
	return report, domainerrors.Join(errs...)
}

// Active reports whether demo rows are present according to the stored flag.
func (m *Manager) Active(ctx context.Context) (bool, error) {
	return m.prefs.DemoActive(ctx)
}

// ClearForUserItem is called before the user adds their own item. While
// demo data is active it purges it when purge is set and otherwise returns
// a Conflict error, so user items are never mixed into the sample set.
// The report is nil when there was nothing to purge.
func (m *Manager) ClearForUserItem(ctx context.Context, purge bool) (*PurgeReport, error) {
	active, err := m.Active(ctx)
	if err != nil || !active {
		return nil, err
	}
	if !purge {
		return nil, domainerrors.Conflict("sample inventory is still present; purge it before adding items")
	}
	report, err := m.Purge(ctx)
	return &report, err
}

// Status reports the stored flags and the demo rows currently in the store.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	var st Status
	var err error
	if st.Seeded, err = m.prefs.HasSeededDemo(ctx); err != nil {
		return st, err
	}
	if st.Active, err = m.prefs.DemoActive(ctx); err != nil {
		return st, err
	}

	items, err := store.ListDemoItems(ctx, m.db)
	if err != nil {
		return st, err
	}
	categories, err := store.ListDemoCategories(ctx, m.db)
	if err != nil {
		return st, err
	}
	st.DemoItems = len(items)
	st.DemoCategories = len(categories)
	return st, nil
}
