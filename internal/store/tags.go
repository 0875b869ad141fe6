package store

import (
	"context"
	"database/sql"
	"fmt"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
)

// CreateTag creates a tag. The name is trimmed and must be unique.
func CreateTag(ctx context.Context, q Querier, name string) (*model.Tag, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return nil, domainerrors.Validation("tag name required")
	}

	t := &model.Tag{ID: NewID(), Name: name, CreatedAt: now()}
	_, err := q.ExecContext(ctx,
		`INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, domainerrors.AlreadyExists(fmt.Sprintf("tag %q already exists", name))
	}
	if err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}
	return t, nil
}

// GetTag returns a tag by ID, or nil if it does not exist.
func GetTag(ctx context.Context, q Querier, id string) (*model.Tag, error) {
	t := &model.Tag{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM tags WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag: %w", err)
	}
	return t, nil
}

// GetOrCreateTag returns the tag with the given name, creating it if needed.
func GetOrCreateTag(ctx context.Context, q Querier, name string) (*model.Tag, error) {
	name = model.NormalizeName(name)
	t := &model.Tag{}
	err := q.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM tags WHERE name = ?`, name,
	).Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return CreateTag(ctx, q, name)
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag by name: %w", err)
	}
	return t, nil
}

// ListTags returns all tags ordered by name.
func ListTags(ctx context.Context, q Querier) ([]model.Tag, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// DeleteTag deletes a tag and its item links. Items are not touched.
func DeleteTag(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting tag: %w", err)
	}
	return rowsAffected(res, "tag")
}

// SetItemTags replaces the tag links of an item. Duplicate IDs are ignored.
func SetItemTags(ctx context.Context, q Querier, itemID string, tagIDs []string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM item_tags WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("clearing item tags: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err := q.ExecContext(ctx,
			`INSERT OR IGNORE INTO item_tags (item_id, tag_id) VALUES (?, ?)`, itemID, tagID,
		)
		if isForeignKeyViolation(err) {
			return domainerrors.NotFoundf("tag %s not found", tagID)
		}
		if err != nil {
			return fmt.Errorf("linking tag: %w", err)
		}
	}
	return nil
}
