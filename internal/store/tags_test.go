package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/itemize/internal/db"
	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
)

func TestGetOrCreateTag(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetOrCreateTag(ctx, database, " fragile ")
	require.NoError(t, err)
	second, err := GetOrCreateTag(ctx, database, "fragile")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = CreateTag(ctx, database, "fragile")
	require.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	_, err = CreateTag(ctx, database, "")
	require.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestDeleteTagKeepsItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	tag, err := CreateTag(ctx, database, "red")
	require.NoError(t, err)
	item := &model.Item{Name: "Apple", Quantity: 1, TagIDs: []string{tag.ID}}
	require.NoError(t, CreateItem(ctx, database, item))

	require.NoError(t, DeleteTag(ctx, database, tag.ID))

	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.TagIDs)
}

func TestSetItemTags(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	a, err := CreateTag(ctx, database, "a")
	require.NoError(t, err)
	b, err := CreateTag(ctx, database, "b")
	require.NoError(t, err)
	item := &model.Item{Name: "Box", Quantity: 1}
	require.NoError(t, CreateItem(ctx, database, item))

	require.NoError(t, SetItemTags(ctx, database, item.ID, []string{b.ID, a.ID, b.ID}))
	got, err := GetItem(ctx, database, item.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, got.TagIDs)

	err = SetItemTags(ctx, database, item.ID, []string{"missing"})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}
