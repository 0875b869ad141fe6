package model

import (
	"slices"
	"strings"
	"time"
)

// Category groups items. Children are derived from ParentID, never stored.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ParentID  string    `json:"parent_id,omitempty"`
	IsDemo    bool      `json:"is_demo"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag is a shared label referenced by any number of items.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// BreadcrumbSeparator joins ancestor names in a breadcrumb.
const BreadcrumbSeparator = " > "

// NormalizeName trims surrounding whitespace from category and tag names.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// Lookup resolves category and tag references by ID.
type Lookup struct {
	categories map[string]Category
	tags       map[string]Tag
}

// NewLookup indexes the given categories and tags.
func NewLookup(categories []Category, tags []Tag) *Lookup {
	l := &Lookup{
		categories: make(map[string]Category, len(categories)),
		tags:       make(map[string]Tag, len(tags)),
	}
	for _, c := range categories {
		l.categories[c.ID] = c
	}
	for _, t := range tags {
		l.tags[t.ID] = t
	}
	return l
}

// Category returns the category with the given ID.
func (l *Lookup) Category(id string) (Category, bool) {
	if l == nil || id == "" {
		return Category{}, false
	}
	c, ok := l.categories[id]
	return c, ok
}

// Tag returns the tag with the given ID.
func (l *Lookup) Tag(id string) (Tag, bool) {
	if l == nil {
		return Tag{}, false
	}
	t, ok := l.tags[id]
	return t, ok
}

// TagNames returns the names of the known tags among ids, in the given order.
func (l *Lookup) TagNames(ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if t, ok := l.Tag(id); ok {
			names = append(names, t.Name)
		}
	}
	return names
}

// Breadcrumb returns the category's ancestor chain joined root first,
// e.g. "Home > Kitchen > Drawers". Returns "" for unknown categories.
// A parent cycle stops the walk at the first repeated category.
func (l *Lookup) Breadcrumb(id string) string {
	var chain []string
	seen := make(map[string]bool)
	for c, ok := l.Category(id); ok && !seen[c.ID]; c, ok = l.Category(c.ParentID) {
		seen[c.ID] = true
		chain = append(chain, c.Name)
	}
	slices.Reverse(chain)
	return strings.Join(chain, BreadcrumbSeparator)
}

// Children returns the direct children of a category ordered by name.
func (l *Lookup) Children(id string) []Category {
	var children []Category
	for _, c := range l.categories {
		if c.ParentID == id && c.ID != id {
			children = append(children, c)
		}
	}
	slices.SortFunc(children, func(a, b Category) int {
		return strings.Compare(a.Name, b.Name)
	})
	return children
}
