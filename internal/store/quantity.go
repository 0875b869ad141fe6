package store

import (
	"context"
	"database/sql"
	"fmt"

	domainerrors "github.com/erazemk/itemize/internal/errors"
)

// AdjustQuantity changes an item's quantity by delta and returns the new
// quantity. Quantities stay positive: an adjustment that would reach zero or
// below is rejected, since removing the last unit means deleting the item.
func AdjustQuantity(ctx context.Context, q Querier, id string, delta int) (int, error) {
	if delta == 0 {
		return 0, domainerrors.Validation("delta must be non-zero")
	}

	var current int
	err := q.QueryRowContext(ctx, `SELECT quantity FROM items WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return 0, domainerrors.NotFound("item not found")
	}
	if err != nil {
		return 0, fmt.Errorf("checking current quantity: %w", err)
	}

	next := current + delta
	if next < 1 {
		return 0, domainerrors.Validation(fmt.Sprintf(
			"adjustment would leave quantity below one: %d %+d = %d", current, delta, next))
	}

	if _, err := q.ExecContext(ctx,
		`UPDATE items SET quantity = ?, updated_at = ? WHERE id = ?`, next, now(), id,
	); err != nil {
		return 0, fmt.Errorf("adjusting quantity: %w", err)
	}
	return next, nil
}
