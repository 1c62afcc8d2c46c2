package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharaga/propmatch/schema"
)

func scoredIDs(items []schema.ScoredProperty) []string {
	ids := make([]string, len(items))
	for i, sp := range items {
		ids[i] = sp.ID
	}
	return ids
}

func rankFixture() []schema.ScoredProperty {
	return []schema.ScoredProperty{
		{Property: schema.Property{ID: "a", PriceINR: schema.Float(50), CarpetAreaSqft: schema.Float(900), PostedAt: "2025-01-10"}, Score: 12},
		{Property: schema.Property{ID: "b", PriceINR: schema.Float(20), PostedAt: "2025-02-01"}, Score: 20},
		{Property: schema.Property{ID: "c", CarpetAreaSqft: schema.Float(1500)}, Score: 12},
		{Property: schema.Property{ID: "d", PriceINR: schema.Float(80), CarpetAreaSqft: schema.Float(1200), PostedAt: "2024-12-31"}, Score: 5},
	}
}

func TestSortListings(t *testing.T) {
	tests := []struct {
		mode schema.SortMode
		want []string
	}{
		{schema.SortRelevance, []string{"b", "a", "c", "d"}},
		{schema.SortNewest, []string{"b", "a", "d", "c"}},
		{schema.SortPriceLow, []string{"c", "b", "a", "d"}},
		{schema.SortPriceHigh, []string{"d", "a", "b", "c"}},
		{schema.SortAreaHigh, []string{"c", "d", "a", "b"}},
		{"bogus", []string{"b", "a", "c", "d"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			items := rankFixture()
			SortListings(items, tt.mode)
			assert.Equal(t, tt.want, scoredIDs(items))
		})
	}
}

func TestPaginate(t *testing.T) {
	items := make([]schema.ScoredProperty, 20)
	for i := range items {
		items[i].ID = string(rune('a' + i))
	}

	t.Run("first page", func(t *testing.T) {
		page := Paginate(items, 1, 9)
		assert.Len(t, page.Items, 9)
		assert.Equal(t, 20, page.Total)
		assert.Equal(t, 3, page.Pages)
		assert.Equal(t, "a", page.Items[0].ID)
	})

	t.Run("last page is short", func(t *testing.T) {
		page := Paginate(items, 3, 9)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "s", page.Items[0].ID)
	})

	t.Run("page is clamped", func(t *testing.T) {
		assert.Equal(t, 3, Paginate(items, 99, 9).Page)
		assert.Equal(t, 1, Paginate(items, -4, 9).Page)
	})

	t.Run("default size", func(t *testing.T) {
		assert.Equal(t, schema.DefaultPageSize, Paginate(items, 1, 0).PageSize)
	})

	t.Run("empty input has one page", func(t *testing.T) {
		page := Paginate(nil, 5, 9)
		assert.Equal(t, 1, page.Pages)
		assert.Equal(t, 1, page.Page)
		assert.Empty(t, page.Items)
	})
}
