package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/itemize/internal/db"
)

func TestSettingsRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	_, ok, err := GetSetting(ctx, database, "item_sort")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, SetSetting(ctx, database, "item_sort", "nameAsc"))
	require.NoError(t, SetSetting(ctx, database, "item_sort", "newest"))

	value, ok, err := GetSetting(ctx, database, "item_sort")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "newest", value)
}
