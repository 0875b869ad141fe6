package model

import "time"

// Item is a tracked inventory entry.
type Item struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Quantity       int            `json:"quantity"`
	CategoryID     string         `json:"category_id,omitempty"`
	Fields         []DynamicField `json:"fields"`
	Images         []ImageAsset   `json:"images"`
	TagIDs         []string       `json:"tag_ids"`
	IsFavorite     bool           `json:"is_favorite"`
	AccessCount    int            `json:"access_count"`
	LastAccessedAt *time.Time     `json:"last_accessed_at,omitempty"`
	IsDemo         bool           `json:"is_demo"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// DynamicField is a free-form key/value attribute owned by one item.
type DynamicField struct {
	ID    string `json:"id"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ImageAsset references an image blob owned by one item.
type ImageAsset struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Order     *int      `json:"order,omitempty"`
	Checksum  string    `json:"checksum,omitempty"`
	BlurHash  string    `json:"blur_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SortOrder returns the display order of the image. Unset orders count as 0.
func (a ImageAsset) SortOrder() int {
	if a.Order == nil {
		return 0
	}
	return *a.Order
}

// PrimaryImage returns the image with the lowest order, earliest first on ties.
// Returns nil if the item has no images.
func (it *Item) PrimaryImage() *ImageAsset {
	var best *ImageAsset
	for i := range it.Images {
		if best == nil || it.Images[i].SortOrder() < best.SortOrder() {
			best = &it.Images[i]
		}
	}
	return best
}
