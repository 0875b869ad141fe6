package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
)

const itemColumns = `id, name, quantity, category_id, is_favorite, access_count,
	last_accessed_at, is_demo, created_at, updated_at`

// CreateItem inserts an item with its fields, images and tag links.
// IDs and timestamps left empty are filled in.
func CreateItem(ctx context.Context, q Querier, item *model.Item) error {
	if item.ID == "" {
		item.ID = NewID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now()
	}
	item.UpdatedAt = item.CreatedAt

	_, err := q.ExecContext(ctx,
		`INSERT INTO items (id, name, quantity, category_id, is_favorite, access_count,
		                    last_accessed_at, is_demo, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.Quantity, nullString(item.CategoryID), item.IsFavorite,
		item.AccessCount, item.LastAccessedAt, item.IsDemo, item.CreatedAt, item.UpdatedAt,
	)
	if isForeignKeyViolation(err) {
		return domainerrors.NotFound("category not found")
	}
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	return insertChildren(ctx, q, item)
}

func insertChildren(ctx context.Context, q Querier, item *model.Item) error {
	for i := range item.Fields {
		f := &item.Fields[i]
		if f.ID == "" {
			f.ID = NewID()
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO fields (id, item_id, key, value, position) VALUES (?, ?, ?, ?, ?)`,
			f.ID, item.ID, f.Key, f.Value, i,
		); err != nil {
			return fmt.Errorf("creating field: %w", err)
		}
	}

	for i := range item.Images {
		if err := AddImage(ctx, q, item.ID, &item.Images[i]); err != nil {
			return err
		}
	}

	return SetItemTags(ctx, q, item.ID, item.TagIDs)
}

// GetItem returns an item with its fields, images and tag IDs, or nil if it
// does not exist.
func GetItem(ctx context.Context, q Querier, id string) (*model.Item, error) {
	items, err := listItemsWhere(ctx, q, `WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ListItems returns every item in insertion order.
func ListItems(ctx context.Context, q Querier) ([]model.Item, error) {
	return listItemsWhere(ctx, q, "")
}

// ListDemoItems returns the items flagged as demo data in insertion order.
func ListDemoItems(ctx context.Context, q Querier) ([]model.Item, error) {
	return listItemsWhere(ctx, q, `WHERE is_demo = 1`)
}

// listItemsWhere loads the matching items first and their relations after,
// each query fully drained before the next one starts.
func listItemsWhere(ctx context.Context, q Querier, where string, args ...any) ([]model.Item, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items `+where+` ORDER BY seq`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	var items []model.Item
	for rows.Next() {
		var it model.Item
		var categoryID sql.NullString
		var lastAccessed sql.NullTime
		if err := rows.Scan(&it.ID, &it.Name, &it.Quantity, &categoryID, &it.IsFavorite,
			&it.AccessCount, &lastAccessed, &it.IsDemo, &it.CreatedAt, &it.UpdatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		it.CategoryID = categoryID.String
		if lastAccessed.Valid {
			t := lastAccessed.Time
			it.LastAccessedAt = &t
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("listing items: %w", err)
	}
	rows.Close()

	if len(items) == 0 {
		return nil, nil
	}

	index := make(map[string]*model.Item, len(items))
	ids := make([]any, 0, len(items))
	for i := range items {
		index[items[i].ID] = &items[i]
		ids = append(ids, items[i].ID)
	}

	if err := loadFields(ctx, q, index, ids); err != nil {
		return nil, err
	}
	if err := loadImages(ctx, q, index, ids); err != nil {
		return nil, err
	}
	if err := loadTagIDs(ctx, q, index, ids); err != nil {
		return nil, err
	}
	return items, nil
}

func loadFields(ctx context.Context, q Querier, index map[string]*model.Item, ids []any) error {
	rows, err := q.QueryContext(ctx,
		`SELECT item_id, id, key, value FROM fields
		 WHERE item_id IN (`+placeholders(len(ids))+`)
		 ORDER BY position, seq`, ids...,
	)
	if err != nil {
		return fmt.Errorf("listing fields: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		var f model.DynamicField
		if err := rows.Scan(&itemID, &f.ID, &f.Key, &f.Value); err != nil {
			return fmt.Errorf("scanning field: %w", err)
		}
		if it, ok := index[itemID]; ok {
			it.Fields = append(it.Fields, f)
		}
	}
	return rows.Err()
}

func loadImages(ctx context.Context, q Querier, index map[string]*model.Item, ids []any) error {
	rows, err := q.QueryContext(ctx,
		`SELECT item_id, id, filename, sort_order, checksum, blur_hash, created_at FROM images
		 WHERE item_id IN (`+placeholders(len(ids))+`)
		 ORDER BY seq`, ids...,
	)
	if err != nil {
		return fmt.Errorf("listing images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID string
		img, err := scanImage(rows, &itemID)
		if err != nil {
			return err
		}
		if it, ok := index[itemID]; ok {
			it.Images = append(it.Images, img)
		}
	}
	return rows.Err()
}

func loadTagIDs(ctx context.Context, q Querier, index map[string]*model.Item, ids []any) error {
	rows, err := q.QueryContext(ctx,
		`SELECT it.item_id, it.tag_id FROM item_tags it
		 JOIN tags t ON t.id = it.tag_id
		 WHERE it.item_id IN (`+placeholders(len(ids))+`)
		 ORDER BY t.seq`, ids...,
	)
	if err != nil {
		return fmt.Errorf("listing item tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, tagID string
		if err := rows.Scan(&itemID, &tagID); err != nil {
			return fmt.Errorf("scanning item tag: %w", err)
		}
		if it, ok := index[itemID]; ok {
			it.TagIDs = append(it.TagIDs, tagID)
		}
	}
	return rows.Err()
}

// UpdateItem saves an item's editable state: name, quantity, category,
// favorite flag, fields, images and tags. Children are replaced wholesale.
// CreatedAt, IsDemo and access tracking are left untouched.
func UpdateItem(ctx context.Context, q Querier, item *model.Item) error {
	item.UpdatedAt = now()
	res, err := q.ExecContext(ctx,
		`UPDATE items SET name = ?, quantity = ?, category_id = ?, is_favorite = ?, updated_at = ?
		 WHERE id = ?`,
		item.Name, item.Quantity, nullString(item.CategoryID), item.IsFavorite, item.UpdatedAt, item.ID,
	)
	if isForeignKeyViolation(err) {
		return domainerrors.NotFound("category not found")
	}
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if err := rowsAffected(res, "item"); err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM fields WHERE item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("clearing fields: %w", err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM images WHERE item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("clearing images: %w", err)
	}

	return insertChildren(ctx, q, item)
}

// DeleteItem deletes an item. Fields, images and tag links cascade; tags and
// the category survive. Returns the blob names the item owned so the caller
// can remove them.
func DeleteItem(ctx context.Context, q Querier, id string) ([]string, error) {
	filenames, err := itemFilenames(ctx, q, id)
	if err != nil {
		return nil, err
	}

	res, err := q.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	if err := rowsAffected(res, "item"); err != nil {
		return nil, err
	}
	return filenames, nil
}

func itemFilenames(ctx context.Context, q Querier, itemID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT filename FROM images WHERE item_id = ? ORDER BY seq`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item images: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning image filename: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// AnyItemExists reports whether at least one item exists without counting them.
func AnyItemExists(ctx context.Context, q Querier) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM items LIMIT 1`).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("probing items: %w", err)
	}
	return true, nil
}

// CountItems returns the number of items.
func CountItems(ctx context.Context, q Querier) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// RecordAccess increments the item's access count and stamps the access time.
func RecordAccess(ctx context.Context, q Querier, id string, at time.Time) error {
	res, err := q.ExecContext(ctx,
		`UPDATE items SET access_count = access_count + 1, last_accessed_at = ? WHERE id = ?`,
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("recording item access: %w", err)
	}
	return rowsAffected(res, "item")
}

// SetFavorite marks or unmarks an item as favorite.
func SetFavorite(ctx context.Context, q Querier, id string, favorite bool) error {
	res, err := q.ExecContext(ctx,
		`UPDATE items SET is_favorite = ?, updated_at = ? WHERE id = ?`,
		favorite, now(), id,
	)
	if err != nil {
		return fmt.Errorf("setting favorite: %w", err)
	}
	return rowsAffected(res, "item")
}
