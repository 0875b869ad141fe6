package store

import (
	"context"
	"database/sql"
	"fmt"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
)

// CreateCategory creates a category. The name is trimmed; empty names are
// rejected before reaching the database.
func CreateCategory(ctx context.Context, q Querier, name, parentID string, isDemo bool) (*model.Category, error) {
	name = model.NormalizeName(name)
	if name == "" {
		return nil, domainerrors.Validation("category name required")
	}

	c := &model.Category{
		ID:        NewID(),
		Name:      name,
		ParentID:  parentID,
		IsDemo:    isDemo,
		CreatedAt: now(),
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO categories (id, name, parent_id, is_demo, created_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, nullString(c.ParentID), c.IsDemo, c.CreatedAt,
	)
	if isUniqueViolation(err) {
		return nil, domainerrors.AlreadyExists(fmt.Sprintf("category %q already exists", name))
	}
	if isForeignKeyViolation(err) {
		return nil, domainerrors.NotFound("parent category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	return c, nil
}

// GetCategory returns a category by ID, or nil if it does not exist.
func GetCategory(ctx context.Context, q Querier, id string) (*model.Category, error) {
	c := &model.Category{}
	var parentID sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT id, name, parent_id, is_demo, created_at FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &parentID, &c.IsDemo, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.ParentID = parentID.String
	return c, nil
}

// GetCategoryByName returns a category by its trimmed name, or nil.
func GetCategoryByName(ctx context.Context, q Querier, name string) (*model.Category, error) {
	var id string
	err := q.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE name = ?`, model.NormalizeName(name),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category by name: %w", err)
	}
	return GetCategory(ctx, q, id)
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, q Querier) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, name, parent_id, is_demo, created_at FROM categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var parentID sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &parentID, &c.IsDemo, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.ParentID = parentID.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListDemoCategories returns the categories flagged as demo data.
func ListDemoCategories(ctx context.Context, q Querier) ([]model.Category, error) {
	all, err := ListCategories(ctx, q)
	if err != nil {
		return nil, err
	}
	var demo []model.Category
	for _, c := range all {
		if c.IsDemo {
			demo = append(demo, c)
		}
	}
	return demo, nil
}

// RenameCategory changes a category's name.
func RenameCategory(ctx context.Context, q Querier, id, name string) error {
	name = model.NormalizeName(name)
	if name == "" {
		return domainerrors.Validation("category name required")
	}

	res, err := q.ExecContext(ctx, `UPDATE categories SET name = ? WHERE id = ?`, name, id)
	if isUniqueViolation(err) {
		return domainerrors.AlreadyExists(fmt.Sprintf("category %q already exists", name))
	}
	if err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}
	return rowsAffected(res, "category")
}

// SetCategoryParent moves a category under parentID, or to the root when
// parentID is empty. Moving a category below itself is rejected.
func SetCategoryParent(ctx context.Context, q Querier, id, parentID string) error {
	for p := parentID; p != ""; {
		if p == id {
			return domainerrors.Validation("category cannot be its own ancestor")
		}
		parent, err := GetCategory(ctx, q, p)
		if err != nil {
			return err
		}
		if parent == nil {
			return domainerrors.NotFound("parent category not found")
		}
		p = parent.ParentID
	}

	res, err := q.ExecContext(ctx,
		`UPDATE categories SET parent_id = ? WHERE id = ?`, nullString(parentID), id,
	)
	if err != nil {
		return fmt.Errorf("moving category: %w", err)
	}
	return rowsAffected(res, "category")
}

// CountCategoryItems returns how many items reference the category.
func CountCategoryItems(ctx context.Context, q Querier, id string) (int, error) {
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category_id = ?`, id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("checking category items: %w", err)
	}
	return count, nil
}

// DeleteCategory deletes a category. Fails if any item still references it.
// Children of the category move to the root.
func DeleteCategory(ctx context.Context, q Querier, id string) error {
	count, err := CountCategoryItems(ctx, q, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domainerrors.Conflict(fmt.Sprintf("cannot delete category: still used by %d items", count))
	}

	return ForceDeleteCategory(ctx, q, id)
}

// ForceDeleteCategory deletes a category regardless of item references.
// Referencing items lose their category.
func ForceDeleteCategory(ctx context.Context, q Querier, id string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	return rowsAffected(res, "category")
}
