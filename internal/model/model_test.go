package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestPrimaryImage(t *testing.T) {
	tests := []struct {
		name   string
		images []ImageAsset
		want   string
	}{
		{"no images", nil, ""},
		{"single", []ImageAsset{{Filename: "a.jpg"}}, "a.jpg"},
		{"lowest order wins", []ImageAsset{
			{Filename: "a.jpg", Order: intPtr(2)},
			{Filename: "b.jpg", Order: intPtr(1)},
			{Filename: "c.jpg", Order: intPtr(3)},
		}, "b.jpg"},
		{"unset order counts as zero", []ImageAsset{
			{Filename: "a.jpg", Order: intPtr(1)},
			{Filename: "b.jpg"},
		}, "b.jpg"},
		{"ties keep insertion order", []ImageAsset{
			{Filename: "a.jpg", Order: intPtr(0)},
			{Filename: "b.jpg"},
		}, "a.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &Item{Images: tt.images}
			got := it.PrimaryImage()
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Filename)
		})
	}
}

func TestBreadcrumb(t *testing.T) {
	l := NewLookup([]Category{
		{ID: "home", Name: "Home"},
		{ID: "kitchen", Name: "Kitchen", ParentID: "home"},
		{ID: "drawer", Name: "Drawer", ParentID: "kitchen"},
		{ID: "orphan", Name: "Orphan", ParentID: "missing"},
		{ID: "x", Name: "X", ParentID: "y"},
		{ID: "y", Name: "Y", ParentID: "x"},
	}, nil)

	assert.Equal(t, "Home", l.Breadcrumb("home"))
	assert.Equal(t, "Home > Kitchen > Drawer", l.Breadcrumb("drawer"))
	assert.Equal(t, "Orphan", l.Breadcrumb("orphan"))
	assert.Equal(t, "", l.Breadcrumb("unknown"))
	assert.Equal(t, "", l.Breadcrumb(""))
	assert.Equal(t, "Y > X", l.Breadcrumb("x"))
}

func TestChildren(t *testing.T) {
	l := NewLookup([]Category{
		{ID: "home", Name: "Home"},
		{ID: "k", Name: "Kitchen", ParentID: "home"},
		{ID: "b", Name: "Bathroom", ParentID: "home"},
		{ID: "d", Name: "Drawer", ParentID: "k"},
	}, nil)

	children := l.Children("home")
	require.Len(t, children, 2)
	assert.Equal(t, "Bathroom", children[0].Name)
	assert.Equal(t, "Kitchen", children[1].Name)
	assert.Empty(t, l.Children("d"))
}

func TestTagNamesSkipsUnknown(t *testing.T) {
	l := NewLookup(nil, []Tag{{ID: "t1", Name: "red"}, {ID: "t2", Name: "blue"}})
	assert.Equal(t, []string{"blue", "red"}, l.TagNames([]string{"t2", "gone", "t1"}))
}

func TestMigrateSortOption(t *testing.T) {
	tests := []struct {
		raw     string
		want    SortOption
		changed bool
	}{
		{"nameAsc", SortNameAsc, false},
		{"favoriteLast", SortFavoriteLast, false},
		{"Naam Z–A", SortNameDesc, true},
		{"Hoeveelheid hoog → laag", SortQuantityDesc, true},
		{"Favorieten eerst", SortFavoriteFirst, true},
		{"quantityLow", SortQuantityAsc, true},
		{"", DefaultSortOption, true},
		{"something else", DefaultSortOption, true},
	}

	for _, tt := range tests {
		got, changed := MigrateSortOption(tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		assert.Equal(t, tt.changed, changed, "raw %q", tt.raw)
	}
}

func TestMigrateGroupOption(t *testing.T) {
	tests := []struct {
		raw     string
		want    GroupOption
		changed bool
	}{
		{"none", GroupNone, false},
		{"tag", GroupTag, false},
		{"Datum toegevoegd", GroupDate, true},
		{"Categorie", GroupCategory, true},
		{"Tag", GroupTag, true},
		{"bogus", DefaultGroupOption, true},
	}

	for _, tt := range tests {
		got, changed := MigrateGroupOption(tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
		assert.Equal(t, tt.changed, changed, "raw %q", tt.raw)
	}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "Cables", NormalizeName("  Cables \n"))
	assert.Equal(t, "", NormalizeName(" \t "))
}
