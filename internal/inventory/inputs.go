package inventory

import (
	"strings"

	"github.com/erazemk/itemize/internal/model"
)

// FieldInput is one key/value attribute of an item.
type FieldInput struct {
	Key   string `json:"key" validate:"required,max=100"`
	Value string `json:"value" validate:"max=500"`
}

// ItemInput is the editable state of an item. Tags are given by name and
// created when missing.
type ItemInput struct {
	Name       string       `json:"name" validate:"required,max=200"`
	Quantity   int          `json:"quantity" validate:"gte=1"`
	CategoryID string       `json:"category_id"`
	Fields     []FieldInput `json:"fields" validate:"max=50,dive"`
	Tags       []string     `json:"tags" validate:"max=50,dive,required,max=50"`
	IsFavorite bool         `json:"is_favorite"`
}

// CategoryInput creates a category.
type CategoryInput struct {
	Name     string `json:"name" validate:"required,max=100,excludesall=>"`
	ParentID string `json:"parent_id"`
}

// TagInput creates a tag.
type TagInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (in *ItemInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	for i := range in.Fields {
		in.Fields[i].Key = strings.TrimSpace(in.Fields[i].Key)
		in.Fields[i].Value = strings.TrimSpace(in.Fields[i].Value)
	}
	for i := range in.Tags {
		in.Tags[i] = model.NormalizeName(in.Tags[i])
	}
}

func (in ItemInput) fields() []model.DynamicField {
	fields := make([]model.DynamicField, 0, len(in.Fields))
	for _, f := range in.Fields {
		fields = append(fields, model.DynamicField{Key: f.Key, Value: f.Value})
	}
	return fields
}
