// Package listing filters, sorts and groups items for display.
//
// Everything here is a pure function of its inputs: the same items, lookup
// and query always produce the same sections.
package listing

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/erazemk/itemize/internal/model"
)

// DateKeyLayout formats the day an item was created for date grouping.
// Keys in this layout order lexicographically the same as chronologically.
const DateKeyLayout = "2006-01-02"

// Labels names the reserved sections.
type Labels struct {
	Uncategorized string
	Untagged      string
}

// DefaultLabels are used when a Query leaves Labels empty.
var DefaultLabels = Labels{
	Uncategorized: "Uncategorized",
	Untagged:      "Untagged",
}

// Query selects and arranges items.
type Query struct {
	// Search matches item names, field keys and values and tag names,
	// case-insensitively. Empty matches everything.
	Search string
	// CategoryID keeps only items in this category. Empty keeps all.
	CategoryID string
	Sort       model.SortOption
	Group      model.GroupOption
	// Location is the time zone used for date sections. Nil means time.Local.
	Location *time.Location
	Labels   Labels
}

// Section is one titled run of items. The single section produced by
// model.GroupNone has an empty title. Reserved marks the section holding
// items without a category or without tags; its title is the configured
// label and never comes from a name.
type Section struct {
	Title    string       `json:"title"`
	Reserved bool         `json:"reserved,omitempty"`
	Items    []model.Item `json:"items"`
}

// Summary counts what a query shows.
type Summary struct {
	Items      int `json:"items"`
	Categories int `json:"categories"`
}

func (q Query) labels() Labels {
	l := q.Labels
	if l.Uncategorized == "" {
		l.Uncategorized = DefaultLabels.Uncategorized
	}
	if l.Untagged == "" {
		l.Untagged = DefaultLabels.Untagged
	}
	return l
}

func (q Query) location() *time.Location {
	if q.Location == nil {
		return time.Local
	}
	return q.Location
}

// Render filters items, groups them into sections ordered by title and sorts
// each section. The reserved section, if any, comes last. Input order breaks
// ties between items with equal sort keys.
func Render(items []model.Item, lookup *model.Lookup, q Query) []Section {
	filtered := Filter(items, lookup, q)

	if q.Group == model.GroupNone || !q.Group.Valid() {
		return []Section{{Items: Sort(filtered, q.Sort)}}
	}

	buckets := make(map[string][]model.Item)
	var reserved []model.Item
	for _, it := range filtered {
		keys := sectionKeys(it, lookup, q.Group, q.location())
		if len(keys) == 0 {
			reserved = append(reserved, it)
			continue
		}
		for _, key := range keys {
			buckets[key] = append(buckets[key], it)
		}
	}

	titles := make([]string, 0, len(buckets))
	for title := range buckets {
		titles = append(titles, title)
	}
	slices.Sort(titles)

	sections := make([]Section, 0, len(titles)+1)
	for _, title := range titles {
		sections = append(sections, Section{Title: title, Items: Sort(buckets[title], q.Sort)})
	}
	if len(reserved) > 0 {
		sections = append(sections, Section{
			Title:    reservedTitle(q),
			Reserved: true,
			Items:    Sort(reserved, q.Sort),
		})
	}
	return sections
}

func reservedTitle(q Query) string {
	if q.Group == model.GroupTag {
		return q.labels().Untagged
	}
	return q.labels().Uncategorized
}

// sectionKeys returns the named sections an item belongs to. No keys means
// the item goes to the reserved section. Only tag grouping can place an
// item in more than one section.
func sectionKeys(it model.Item, lookup *model.Lookup, group model.GroupOption, loc *time.Location) []string {
	switch group {
	case model.GroupCategory:
		if crumb := lookup.Breadcrumb(it.CategoryID); crumb != "" {
			return []string{crumb}
		}
		return nil
	case model.GroupDate:
		return []string{it.CreatedAt.In(loc).Format(DateKeyLayout)}
	case model.GroupTag:
		names := lookup.TagNames(it.TagIDs)
		slices.Sort(names)
		return slices.Compact(names)
	}
	return []string{""}
}

// Filter returns the items matching the query's search text and category,
// in input order.
func Filter(items []model.Item, lookup *model.Lookup, q Query) []model.Item {
	m := newMatcher(q.Search)
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if q.CategoryID != "" && it.CategoryID != q.CategoryID {
			continue
		}
		if !m.matches(it, lookup) {
			continue
		}
		out = append(out, it)
	}
	return out
}

type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(search string) *matcher {
	if search == "" {
		return &matcher{}
	}
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(search)}
}

func (m *matcher) contains(s string) bool {
	return strings.Contains(m.fold.String(s), m.needle)
}

func (m *matcher) matches(it model.Item, lookup *model.Lookup) bool {
	if m.needle == "" {
		return true
	}
	if m.contains(it.Name) {
		return true
	}
	for _, f := range it.Fields {
		if m.contains(f.Key) || m.contains(f.Value) {
			return true
		}
	}
	for _, name := range lookup.TagNames(it.TagIDs) {
		if m.contains(name) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of items. The sort is stable, so items with
// equal keys keep their input order. Unknown options sort by name.
func Sort(items []model.Item, opt model.SortOption) []model.Item {
	out := slices.Clone(items)
	coll := collate.New(language.Und, collate.IgnoreCase)
	byName := func(a, b model.Item) int {
		return coll.CompareString(a.Name, b.Name)
	}

	var cmp func(a, b model.Item) int
	switch opt {
	case model.SortNameDesc:
		cmp = func(a, b model.Item) int { return byName(b, a) }
	case model.SortNewest:
		cmp = func(a, b model.Item) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case model.SortOldest:
		cmp = func(a, b model.Item) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case model.SortQuantityDesc:
		cmp = func(a, b model.Item) int { return b.Quantity - a.Quantity }
	case model.SortQuantityAsc:
		cmp = func(a, b model.Item) int { return a.Quantity - b.Quantity }
	case model.SortFavoriteFirst, model.SortFavoriteLast:
		favFirst := opt == model.SortFavoriteFirst
		cmp = func(a, b model.Item) int {
			if a.IsFavorite != b.IsFavorite {
				if a.IsFavorite == favFirst {
					return -1
				}
				return 1
			}
			if c := byName(a, b); c != 0 {
				return c
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	default:
		cmp = byName
	}

	slices.SortStableFunc(out, cmp)
	return out
}

// Summarize counts the items a query keeps and the distinct categories
// among them.
func Summarize(items []model.Item, lookup *model.Lookup, q Query) Summary {
	filtered := Filter(items, lookup, q)
	categories := make(map[string]bool)
	for _, it := range filtered {
		if it.CategoryID != "" {
			categories[it.CategoryID] = true
		}
	}
	return Summary{Items: len(filtered), Categories: len(categories)}
}
