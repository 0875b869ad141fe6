package store

import (
	"context"
	"database/sql"
	"fmt"

	domainerrors "github.com/erazemk/itemize/internal/errors"
	"github.com/erazemk/itemize/internal/model"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanImage(s scanner, itemID *string) (model.ImageAsset, error) {
	var img model.ImageAsset
	var order sql.NullInt64
	var checksum, blurHash sql.NullString
	if err := s.Scan(itemID, &img.ID, &img.Filename, &order, &checksum, &blurHash, &img.CreatedAt); err != nil {
		return img, fmt.Errorf("scanning image: %w", err)
	}
	if order.Valid {
		o := int(order.Int64)
		img.Order = &o
	}
	img.Checksum = checksum.String
	img.BlurHash = blurHash.String
	return img, nil
}

// AddImage attaches an image asset to an item. The filename must not be
// owned by any other asset.
func AddImage(ctx context.Context, q Querier, itemID string, img *model.ImageAsset) error {
	if img.Filename == "" {
		return domainerrors.Validation("image filename required")
	}
	if img.ID == "" {
		img.ID = NewID()
	}
	if img.CreatedAt.IsZero() {
		img.CreatedAt = now()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO images (id, item_id, filename, sort_order, checksum, blur_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		img.ID, itemID, img.Filename, nullInt(img.Order),
		nullString(img.Checksum), nullString(img.BlurHash), img.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domainerrors.Conflict(fmt.Sprintf("image %q is already owned by another asset", img.Filename))
	}
	if isForeignKeyViolation(err) {
		return domainerrors.NotFound("item not found")
	}
	if err != nil {
		return fmt.Errorf("adding image: %w", err)
	}
	return nil
}

// RemoveImage detaches an image asset from its item and returns it so the
// caller can delete the blob. Returns nil if no such asset belongs to the item.
func RemoveImage(ctx context.Context, q Querier, itemID, imageID string) (*model.ImageAsset, error) {
	var owner string
	img, err := scanImage(q.QueryRowContext(ctx,
		`SELECT item_id, id, filename, sort_order, checksum, blur_hash, created_at
		 FROM images WHERE id = ? AND item_id = ?`, imageID, itemID,
	), &owner)
	if err != nil {
		if domainerrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if _, err := q.ExecContext(ctx, `DELETE FROM images WHERE id = ?`, imageID); err != nil {
		return nil, fmt.Errorf("removing image: %w", err)
	}
	return &img, nil
}

// ReferencedFilenames returns the set of blob names owned by any image asset.
func ReferencedFilenames(ctx context.Context, q Querier) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT filename FROM images`)
	if err != nil {
		return nil, fmt.Errorf("listing image filenames: %w", err)
	}
	defer rows.Close()

	names := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning image filename: %w", err)
		}
		names[name] = true
	}
	return names, rows.Err()
}
