package model

// SortOption orders the item list.
type SortOption string

// Sort options. The string values are the persisted preference keys.
const (
	SortNameAsc       SortOption = "nameAsc"
	SortNameDesc      SortOption = "nameDesc"
	SortNewest        SortOption = "newest"
	SortOldest        SortOption = "oldest"
	SortQuantityDesc  SortOption = "quantityDesc"
	SortQuantityAsc   SortOption = "quantityAsc"
	SortFavoriteFirst SortOption = "favoriteFirst"
	SortFavoriteLast  SortOption = "favoriteLast"
)

// DefaultSortOption is used when no valid preference is stored.
const DefaultSortOption = SortNameAsc

// SortOptions lists every sort option in menu order.
var SortOptions = []SortOption{
	SortNameAsc, SortNameDesc,
	SortNewest, SortOldest,
	SortQuantityDesc, SortQuantityAsc,
	SortFavoriteFirst, SortFavoriteLast,
}

// Valid reports whether o is a known sort option.
func (o SortOption) Valid() bool {
	for _, s := range SortOptions {
		if o == s {
			return true
		}
	}
	return false
}

// GroupOption sections the item list.
type GroupOption string

// Group options. The string values are the persisted preference keys.
const (
	GroupNone     GroupOption = "none"
	GroupCategory GroupOption = "category"
	GroupDate     GroupOption = "date"
	GroupTag      GroupOption = "tag"
)

// DefaultGroupOption is used when no valid preference is stored.
const DefaultGroupOption = GroupNone

// GroupOptions lists every group option in menu order.
var GroupOptions = []GroupOption{GroupNone, GroupCategory, GroupDate, GroupTag}

// Valid reports whether o is a known group option.
func (o GroupOption) Valid() bool {
	for _, g := range GroupOptions {
		if o == g {
			return true
		}
	}
	return false
}

// legacySortValues maps values written by older app versions to sort keys.
// Older versions stored the localized menu label, later ones short keys.
var legacySortValues = map[string]SortOption{
	"Naam A–Z":                SortNameAsc,
	"Naam Z–A":                SortNameDesc,
	"Nieuwste eerst":          SortNewest,
	"Oudste eerst":            SortOldest,
	"Hoeveelheid hoog → laag": SortQuantityDesc,
	"Hoeveelheid laag → hoog": SortQuantityAsc,
	"Favorieten eerst":        SortFavoriteFirst,
	"Favorieten laatst":       SortFavoriteLast,
	"nameAZ":                  SortNameAsc,
	"nameZA":                  SortNameDesc,
	"quantityHigh":            SortQuantityDesc,
	"quantityLow":             SortQuantityAsc,
}

var legacyGroupValues = map[string]GroupOption{
	"Geen":             GroupNone,
	"Categorie":        GroupCategory,
	"Datum toegevoegd": GroupDate,
	"Tag":              GroupTag,
}

// MigrateSortOption resolves a stored sort preference. Legacy values map to
// their key; unknown values fall back to the default. changed reports whether
// the stored value should be rewritten.
func MigrateSortOption(raw string) (opt SortOption, changed bool) {
	if o := SortOption(raw); o.Valid() {
		return o, false
	}
	if o, ok := legacySortValues[raw]; ok {
		return o, true
	}
	return DefaultSortOption, true
}

// MigrateGroupOption resolves a stored group preference like MigrateSortOption.
func MigrateGroupOption(raw string) (opt GroupOption, changed bool) {
	if o := GroupOption(raw); o.Valid() {
		return o, false
	}
	if o, ok := legacyGroupValues[raw]; ok {
		return o, true
	}
	return DefaultGroupOption, true
}
