package algo

import (
	"cmp"
	"slices"

	"github.com/tharaga/propmatch/schema"
)

// SortListings orders scored listings in place by the given mode.
// Ties keep their input order. Unknown modes fall back to relevance.
func SortListings(items []schema.ScoredProperty, mode schema.SortMode) {
	switch mode {
	case schema.SortNewest:
		slices.SortStableFunc(items, func(a, b schema.ScoredProperty) int {
			return cmp.Compare(postedUnix(b.PostedAt), postedUnix(a.PostedAt))
		})
	case schema.SortPriceLow:
		slices.SortStableFunc(items, func(a, b schema.ScoredProperty) int {
			return cmp.Compare(valueOr(a.PriceINR, 0), valueOr(b.PriceINR, 0))
		})
	case schema.SortPriceHigh:
		slices.SortStableFunc(items, func(a, b schema.ScoredProperty) int {
			return cmp.Compare(valueOr(b.PriceINR, 0), valueOr(a.PriceINR, 0))
		})
	case schema.SortAreaHigh:
		slices.SortStableFunc(items, func(a, b schema.ScoredProperty) int {
			return cmp.Compare(valueOr(b.CarpetAreaSqft, 0), valueOr(a.CarpetAreaSqft, 0))
		})
	default:
		slices.SortStableFunc(items, func(a, b schema.ScoredProperty) int {
			return cmp.Compare(b.Score, a.Score)
		})
	}
}

// postedUnix returns the posting time in seconds, or 0 when unknown.
func postedUnix(s string) int64 {
	t, ok := ParsePostedAt(s)
	if !ok {
		return 0
	}
	return t.Unix()
}

// Paginate slices items into one page. The page number is clamped to
// [1, pages], and an empty input still has one page.
func Paginate(items []schema.ScoredProperty, page, size int) schema.ListingPage {
	if size <= 0 {
		size = schema.DefaultPageSize
	}
	pages := max(1, (len(items)+size-1)/size)
	page = min(max(page, 1), pages)
	start := (page - 1) * size
	end := min(start+size, len(items))
	return schema.ListingPage{
		Items:    items[start:end],
		Total:    len(items),
		Page:     page,
		Pages:    pages,
		PageSize: size,
	}
}
