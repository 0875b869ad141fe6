package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/itemize/internal/db"
	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
)

func newItem(name string, qty int) *model.Item {
	return &model.Item{Name: name, Quantity: qty}
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	err := WithTx(ctx, database, func(q Querier) error {
		return CreateItem(ctx, q, newItem("Laptop", 1))
	})
	require.NoError(t, err)

	count, err := CountItems(ctx, database)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	sentinel := domainerrors.Validation("stop")
	err := WithTx(ctx, database, func(q Querier) error {
		if err := CreateItem(ctx, q, newItem("Laptop", 1)); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	exists, err := AnyItemExists(ctx, database)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestWithTxClosedDatabase(t *testing.T) {
	database, err := db.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	err = WithTx(context.Background(), database, func(q Querier) error { return nil })
	require.ErrorIs(t, err, domainerrors.ErrPersistence)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?, ?, ?", placeholders(3))
}

// openTx is used by tests that check behaviour inside an open transaction.
func openTx(t *testing.T, database *sql.DB) *sql.Tx {
	t.Helper()
	tx, err := database.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { tx.Rollback() })
	return tx
}

func TestAnyItemExistsInsideTx(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	tx := openTx(t, database)

	exists, err := AnyItemExists(ctx, tx)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, CreateItem(ctx, tx, newItem("Cable", 2)))
	exists, err = AnyItemExists(ctx, tx)
	require.NoError(t, err)
	assert.True(t, exists)
}
