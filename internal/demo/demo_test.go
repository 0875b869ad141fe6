package demo

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/itemize/internal/db"
	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
	"github.com/erazemk/itemize/internal/prefs"
	"github.com/erazemk/itemize/internal/store"
)

type recordingBlobs struct {
	deleted []string
}

func (r *recordingBlobs) Delete(name string) {
	r.deleted = append(r.deleted, name)
}

func newManager(t *testing.T) (*Manager, *sql.DB, *prefs.Prefs, *recordingBlobs) {
	t.Helper()
	database := db.NewTestDB(t)
	p := prefs.New(prefs.NewSQLBackend(database), nil)
	blobs := &recordingBlobs{}
	return NewManager(database, p, blobs, nil), database, p, blobs
}

func TestCatalogShape(t *testing.T) {
	assert.Len(t, catalogCategories, 5)
	assert.Len(t, catalogItems, 11)

	known := make(map[string]bool)
	for _, c := range catalogCategories {
		known[c] = true
	}
	for _, it := range catalogItems {
		assert.True(t, known[it.Category], "item %q", it.Name)
		assert.GreaterOrEqual(t, len(it.Fields), 2, "item %q", it.Name)
		assert.LessOrEqual(t, len(it.Fields), 3, "item %q", it.Name)
		assert.Positive(t, it.Quantity)
	}
}

func TestSeedIfEmpty(t *testing.T) {
	m, database, _, _ := newManager(t)
	ctx := context.Background()

	inserted, err := m.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.True(t, inserted)

	items, err := store.ListItems(ctx, database)
	require.NoError(t, err)
	require.Len(t, items, 11)
	for _, it := range items {
		assert.True(t, it.IsDemo)
		assert.NotEmpty(t, it.CategoryID)
	}
	assert.Equal(t, "Ethernet Cable 3 m", items[0].Name)
	require.Len(t, items[0].Fields, 3)
	assert.Equal(t, "Cat6", items[0].Fields[2].Value)

	cats, err := store.ListDemoCategories(ctx, database)
	require.NoError(t, err)
	assert.Len(t, cats, 5)
}

func TestSeedTwiceLeavesCountUnchanged(t *testing.T) {
	m, database, _, _ := newManager(t)
	ctx := context.Background()

	_, err := m.SeedIfEmpty(ctx)
	require.NoError(t, err)
	first, err := store.CountItems(ctx, database)
	require.NoError(t, err)

	inserted, err := m.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, inserted)

	second, err := store.CountItems(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	m, database, _, _ := newManager(t)
	ctx := context.Background()

	require.NoError(t, store.CreateItem(ctx, database, &model.Item{Name: "Mine", Quantity: 1}))

	inserted, err := m.SeedIfEmpty(ctx)
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := store.CountItems(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSeedReusesExistingCategory(t *testing.T) {
	m, database, _, _ := newManager(t)
	ctx := context.Background()

	tools, err := store.CreateCategory(ctx, database, "Tools", "", false)
	require.NoError(t, err)

	_, err = m.SeedIfEmpty(ctx)
	require.NoError(t, err)

	got, err := store.GetCategory(ctx, database, tools.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDemo)

	n, err := store.CountCategoryItems(ctx, database, tools.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestEnsureSeededRunsOnce(t *testing.T) {
	m, database, p, _ := newManager(t)
	ctx := context.Background()

	inserted, err := m.EnsureSeeded(ctx)
	require.NoError(t, err)
	assert.True(t, inserted)

	seeded, err := p.HasSeededDemo(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	// Once seeded, an emptied store stays empty.
	_, err = m.Purge(ctx)
	require.NoError(t, err)
	inserted, err = m.EnsureSeeded(ctx)
	require.NoError(t, err)
	assert.False(t, inserted)

	count, err := store.CountItems(ctx, database)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestEnsureSeededWithExistingItems(t *testing.T) {
	m, database, p, _ := newManager(t)
	ctx := context.Background()

	require.NoError(t, store.CreateItem(ctx, database, &model.Item{Name: "Mine", Quantity: 1}))

	inserted, err := m.EnsureSeeded(ctx)
	require.NoError(t, err)
	assert.False(t, inserted)

	seeded, err := p.HasSeededDemo(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
	active, err := p.DemoActive(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestEnsureSeededFailureLeavesFlagUnset(t *testing.T) {
	m, database, _, _ := newManager(t)
	ctx := context.Background()

	// Prefs live in memory so only the seed itself fails.
	mem := prefs.New(prefs.NewMemoryBackend(), nil)
	m.prefs = mem
	require.NoError(t, database.Close())

	_, err := m.EnsureSeeded(ctx)
	require.Error(t, err)

	seeded, err := mem.HasSeededDemo(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestPurgeKeepsCategoryUsedByUserItem(t *testing.T) {
	m, database, _, blobs := newManager(t)
	ctx := context.Background()

	_, err := m.EnsureSeeded(ctx)
	require.NoError(t, err)

	cables, err := store.GetCategoryByName(ctx, database, "Cables")
	require.NoError(t, err)
	require.NotNil(t, cables)

	// Give one demo item an image and assign the demo category to a user item.
	demoItems, err := store.ListDemoItems(ctx, database)
	require.NoError(t, err)
	require.NoError(t, store.AddImage(ctx, database, demoItems[0].ID, &model.ImageAsset{Filename: "IMG-demo.jpg"}))

	mine := &model.Item{Name: "My USB-C cable", Quantity: 1, CategoryID: cables.ID}
	require.NoError(t, store.CreateItem(ctx, database, mine))

	report, err := m.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, 11, report.ItemsDeleted)
	assert.Equal(t, 1, report.BlobsDeleted)
	assert.Equal(t, 4, report.CategoriesDeleted)
	assert.Equal(t, 1, report.CategoriesKept)
	assert.Equal(t, []string{"IMG-demo.jpg"}, blobs.deleted)

	remaining, err := store.ListItems(ctx, database)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, mine.ID, remaining[0].ID)
	assert.Equal(t, cables.ID, remaining[0].CategoryID)

	got, err := store.GetCategory(ctx, database, cables.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	refs, err := store.ReferencedFilenames(ctx, database)
	require.NoError(t, err)
	assert.Empty(t, refs)

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestPurgeItemFailureStillPurgesCategories(t *testing.T) {
	m, database, _, blobs := newManager(t)
	ctx := context.Background()

	_, err := m.EnsureSeeded(ctx)
	require.NoError(t, err)

	demoItems, err := store.ListDemoItems(ctx, database)
	require.NoError(t, err)
	first, last := demoItems[0], demoItems[len(demoItems)-1]
	require.NoError(t, store.AddImage(ctx, database, first.ID, &model.ImageAsset{Filename: "IMG-first.jpg"}))
	require.NoError(t, store.AddImage(ctx, database, last.ID, &model.ImageAsset{Filename: "IMG-last.jpg"}))

	// Deleting the last demo item aborts, after earlier deletes ran in the same transaction.
	_, err = database.ExecContext(ctx, `CREATE TRIGGER block_delete BEFORE DELETE ON items
		WHEN OLD.id = '`+last.ID+`' BEGIN SELECT RAISE(ABORT, 'blocked'); END`)
	require.NoError(t, err)

	report, err := m.Purge(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "purging demo items")
	assert.Contains(t, err.Error(), "blocked")
	assert.Equal(t, PurgeReport{CategoriesKept: 5}, report)

	// Rolled back rows keep their blobs.
	assert.Empty(t, blobs.deleted)
	refs, err := store.ReferencedFilenames(ctx, database)
	require.NoError(t, err)
	assert.Len(t, refs, 2)

	remaining, err := store.ListDemoItems(ctx, database)
	require.NoError(t, err)
	assert.Len(t, remaining, len(demoItems))

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestPurgeJoinsErrorsOfBothPhases(t *testing.T) {
	m, database, _, blobs := newManager(t)
	ctx := context.Background()

	_, err := m.EnsureSeeded(ctx)
	require.NoError(t, err)

	_, err = database.ExecContext(ctx, `CREATE TRIGGER block_item_delete BEFORE DELETE ON items
		BEGIN SELECT RAISE(ABORT, 'items blocked'); END`)
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `CREATE TRIGGER block_category_delete BEFORE DELETE ON categories
		BEGIN SELECT RAISE(ABORT, 'categories blocked'); END`)
	require.NoError(t, err)

	// Free one demo category so phase two has something to delete.
	office, err := store.GetCategoryByName(ctx, database, "Office")
	require.NoError(t, err)
	_, err = database.ExecContext(ctx, `UPDATE items SET category_id = NULL WHERE category_id = ?`, office.ID)
	require.NoError(t, err)

	report, err := m.Purge(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "items blocked")
	assert.Contains(t, err.Error(), "categories blocked")
	assert.Zero(t, report.ItemsDeleted)
	assert.Zero(t, report.CategoriesDeleted)
	assert.Empty(t, blobs.deleted)

	active, err := m.Active(ctx)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestClearForUserItem(t *testing.T) {
	m, database, _, _ := newManager(t)
	ctx := context.Background()

	report, err := m.ClearForUserItem(ctx, false)
	require.NoError(t, err)
	assert.Nil(t, report)

	_, err = m.EnsureSeeded(ctx)
	require.NoError(t, err)

	_, err = m.ClearForUserItem(ctx, false)
	require.ErrorIs(t, err, domainerrors.ErrConflict)
	count, err := store.CountItems(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, 11, count)

	report, err = m.ClearForUserItem(ctx, true)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 11, report.ItemsDeleted)

	// The purge cleared the flag, so adding is allowed from now on.
	report, err = m.ClearForUserItem(ctx, false)
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestPurgeOnEmptyStore(t *testing.T) {
	m, _, _, _ := newManager(t)

	report, err := m.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PurgeReport{}, report)
}

func TestStatus(t *testing.T) {
	m, _, _, _ := newManager(t)
	ctx := context.Background()

	st, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, Status{}, st)

	_, err = m.EnsureSeeded(ctx)
	require.NoError(t, err)

	st, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, Status{Seeded: true, Active: true, DemoItems: 11, DemoCategories: 5}, st)
}

func TestSeedAfterPurge(t *testing.T) {
	m, _, p, _ := newManager(t)
	ctx := context.Background()

	_, err := m.EnsureSeeded(ctx)
	require.NoError(t, err)
	_, err = m.Purge(ctx)
	require.NoError(t, err)

	seeded, err := m.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	active, err := p.DemoActive(ctx)
	require.NoError(t, err)
	assert.True(t, active)

	seeded, err = m.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}
