package algo

import (
	"math"
	"slices"
	"strings"

	"github.com/tharaga/propmatch/schema"
)

// AllLocalities disables the locality filter when selected.
const AllLocalities = "All"

// Filters narrows a listing set before ranking. Zero values disable a filter.
type Filters struct {
	Mode       string   `json:"mode,omitempty"`
	Query      string   `json:"q,omitempty"`
	Cities     []string `json:"cities,omitempty"`
	Localities []string `json:"localities,omitempty"`
	MinPrice   float64  `json:"minPrice,omitempty"`
	MaxPrice   float64  `json:"maxPrice,omitempty"`
	Type       string   `json:"type,omitempty"`
	BHK        string   `json:"bhk,omitempty"`
	Furnished  string   `json:"furnished,omitempty"`
	Facing     string   `json:"facing,omitempty"`
	MinArea    float64  `json:"minArea,omitempty"`
	MaxArea    float64  `json:"maxArea,omitempty"`
	Amenity    string   `json:"amenity,omitempty"`
	WantMetro  bool     `json:"wantMetro,omitempty"`
	MaxWalk    float64  `json:"maxWalk,omitempty"`
}

// DefaultMaxWalk is the walking budget in minutes when metro is wanted.
const DefaultMaxWalk = 10.0

// Matches reports whether p passes every active filter.
func (f Filters) Matches(p schema.Property) bool {
	if f.Mode != "" && p.Category != strings.ToLower(f.Mode) {
		return false
	}
	if f.Query != "" && !containsAllTokens(p, f.Query) {
		return false
	}
	if len(f.Cities) > 0 && !slices.Contains(f.Cities, p.City) {
		return false
	}
	if len(f.Localities) > 0 && !slices.Contains(f.Localities, AllLocalities) && !slices.Contains(f.Localities, p.Locality) {
		return false
	}

	price := valueOr(p.PriceINR, 0)
	if f.MinPrice > 0 && price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && price > f.MaxPrice {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.BHK != "" && schema.FormatOptional(p.BHK, "") != f.BHK {
		return false
	}
	if f.Furnished != "" && p.Furnished != f.Furnished {
		return false
	}
	if f.Facing != "" && p.Facing != f.Facing {
		return false
	}

	area := valueOr(p.CarpetAreaSqft, 0)
	if f.MinArea > 0 && area < f.MinArea {
		return false
	}
	if f.MaxArea > 0 && area > f.MaxArea {
		return false
	}
	if f.Amenity != "" && amenityScore(p.Amenities, f.Amenity) == 0 {
		return false
	}

	if f.WantMetro {
		if !isFinite(p.MetroKm) {
			return false
		}
		maxWalk := f.MaxWalk
		if maxWalk <= 0 {
			maxWalk = DefaultMaxWalk
		}
		if *p.MetroKm*schema.WalkMinutesPerKm > maxWalk {
			return false
		}
	}
	return true
}

// Apply returns the listings that pass the filters, in input order.
func (f Filters) Apply(props []schema.Property) []schema.Property {
	out := make([]schema.Property, 0, len(props))
	for _, p := range props {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func containsAllTokens(p schema.Property, query string) bool {
	hay := strings.ToLower(strings.Join([]string{p.Title, p.Project, p.City, p.Locality, p.Address, p.Summary}, " "))
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(hay, tok) {
			return false
		}
	}
	return true
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil || math.IsNaN(*v) {
		return fallback
	}
	return *v
}
