package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/itemize/internal/db"
	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, err := CreateCategory(ctx, database, "Cables", "", false)
	require.NoError(t, err)
	tag, err := CreateTag(ctx, database, "network")
	require.NoError(t, err)

	order := 1
	item := &model.Item{
		Name:       "Ethernet Cable",
		Quantity:   3,
		CategoryID: cat.ID,
		Fields: []model.DynamicField{
			{Key: "Color", Value: "Blue"},
			{Key: "Length", Value: "3 m"},
		},
		Images: []model.ImageAsset{{Filename: "IMG-a.jpg", Order: &order}},
		TagIDs: []string{tag.ID},
	}
	require.NoError(t, CreateItem(ctx, database, item))
	assert.NotEmpty(t, item.ID)

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ethernet Cable", got.Name)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, cat.ID, got.CategoryID)
	require.Len(t, got.Fields, 2)
	assert.Equal(t, "Color", got.Fields[0].Key)
	assert.Equal(t, "Length", got.Fields[1].Key)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "IMG-a.jpg", got.Images[0].Filename)
	require.NotNil(t, got.Images[0].Order)
	assert.Equal(t, 1, *got.Images[0].Order)
	assert.Equal(t, []string{tag.ID}, got.TagIDs)
	assert.Nil(t, got.LastAccessedAt)
}

func TestGetItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	got, err := GetItem(context.Background(), database, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreateItemRejectsNonPositiveQuantity(t *testing.T) {
	database := db.NewTestDB(t)

	err := CreateItem(context.Background(), database, newItem("Empty", 0))
	require.Error(t, err)
}

func TestCreateItemUnknownCategory(t *testing.T) {
	database := db.NewTestDB(t)

	item := newItem("Lost", 1)
	item.CategoryID = "nope"
	err := CreateItem(context.Background(), database, item)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestListItemsInsertionOrder(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, name := range []string{"B", "A", "C"} {
		require.NoError(t, CreateItem(ctx, database, newItem(name, 1)))
	}

	items, err := ListItems(ctx, database)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "B", items[0].Name)
	assert.Equal(t, "A", items[1].Name)
	assert.Equal(t, "C", items[2].Name)
}

func TestListDemoItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	demo := newItem("Demo", 1)
	demo.IsDemo = true
	require.NoError(t, CreateItem(ctx, database, demo))
	require.NoError(t, CreateItem(ctx, database, newItem("Real", 1)))

	items, err := ListDemoItems(ctx, database)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Demo", items[0].Name)
}

func TestUpdateItemReplacesChildren(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("Mouse", 1)
	item.Fields = []model.DynamicField{{Key: "Brand", Value: "Logi"}}
	item.Images = []model.ImageAsset{{Filename: "IMG-1.jpg"}}
	require.NoError(t, CreateItem(ctx, database, item))

	item.Name = "Wireless Mouse"
	item.Quantity = 2
	item.Fields = []model.DynamicField{{Key: "DPI", Value: "1600"}}
	item.Images = []model.ImageAsset{{Filename: "IMG-2.jpg"}}
	require.NoError(t, UpdateItem(ctx, database, item))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", got.Name)
	assert.Equal(t, 2, got.Quantity)
	require.Len(t, got.Fields, 1)
	assert.Equal(t, "DPI", got.Fields[0].Key)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "IMG-2.jpg", got.Images[0].Filename)
}

func TestUpdateItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	item := newItem("Ghost", 1)
	item.ID = "missing"
	err := UpdateItem(context.Background(), database, item)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDeleteItemCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	cat, err := CreateCategory(ctx, database, "Office", "", false)
	require.NoError(t, err)
	tag, err := CreateTag(ctx, database, "desk")
	require.NoError(t, err)

	item := newItem("Stapler", 1)
	item.CategoryID = cat.ID
	item.TagIDs = []string{tag.ID}
	item.Fields = []model.DynamicField{{Key: "Color", Value: "Black"}}
	item.Images = []model.ImageAsset{{Filename: "IMG-x.jpg"}, {Filename: "IMG-y.jpg"}}
	require.NoError(t, CreateItem(ctx, database, item))

	names, err := DeleteItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"IMG-x.jpg", "IMG-y.jpg"}, names)

	var n int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM fields`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM images`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM item_tags`).Scan(&n))
	assert.Zero(t, n)

	// Tag and category survive.
	gotTag, err := GetTag(ctx, database, tag.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotTag)
	gotCat, err := GetCategory(ctx, database, cat.ID)
	require.NoError(t, err)
	assert.NotNil(t, gotCat)
}

func TestDeleteItemMissing(t *testing.T) {
	database := db.NewTestDB(t)

	_, err := DeleteItem(context.Background(), database, "missing")
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestRecordAccessIsMonotonic(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("Pen", 5)
	require.NoError(t, CreateItem(ctx, database, item))

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	require.NoError(t, RecordAccess(ctx, database, item.ID, first))
	require.NoError(t, RecordAccess(ctx, database, item.ID, second))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AccessCount)
	require.NotNil(t, got.LastAccessedAt)
	assert.True(t, got.LastAccessedAt.Equal(second))
}

func TestSetFavorite(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("Mug", 1)
	require.NoError(t, CreateItem(ctx, database, item))
	require.NoError(t, SetFavorite(ctx, database, item.ID, true))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)

	require.ErrorIs(t, SetFavorite(ctx, database, "missing", true), domainerrors.ErrNotFound)
}

func TestAdjustQuantity(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem("Batteries", 4)
	require.NoError(t, CreateItem(ctx, database, item))

	qty, err := AdjustQuantity(ctx, database, item.ID, -3)
	require.NoError(t, err)
	assert.Equal(t, 1, qty)

	_, err = AdjustQuantity(ctx, database, item.ID, -1)
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = AdjustQuantity(ctx, database, item.ID, 0)
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = AdjustQuantity(ctx, database, "missing", 1)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	qty, err = AdjustQuantity(ctx, database, item.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, qty)
}
