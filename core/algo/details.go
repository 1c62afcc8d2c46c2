package algo

import (
	"fmt"
	"math"
	"strings"

	"github.com/tharaga/propmatch/schema"
)

const (
	maxSummaryAmenities = 5
	minSimilar          = 3

	// MaxSimilar is the default number of similar listings shown.
	MaxSimilar = 6
)

// SmartSummary builds a short description from structured fields.
func SmartSummary(p schema.Property) string {
	var bits []string
	if p.City != "" {
		loc := ""
		if p.Locality != "" {
			loc = p.Locality + ", "
		}
		bits = append(bits, fmt.Sprintf("Located in %s%s.", loc, p.City))
	}
	if p.BHK != nil && *p.BHK != 0 {
		kind := p.Type
		if kind == "" {
			kind = "home"
		}
		bits = append(bits, fmt.Sprintf("%s BHK %s with %s sqft.",
			schema.FormatOptional(p.BHK, ""), kind, areaText(p.CarpetAreaSqft)))
	}
	if p.Furnished != "" {
		bits = append(bits, p.Furnished+".")
	}
	if p.Facing != "" {
		bits = append(bits, fmt.Sprintf("Vaastu: %s-facing.", p.Facing))
	}
	if len(p.Amenities) > 0 {
		top := p.Amenities[:min(len(p.Amenities), maxSummaryAmenities)]
		bits = append(bits, fmt.Sprintf("Key amenities: %s.", strings.Join(top, ", ")))
	}
	return strings.Join(bits, " ")
}

func areaText(v *float64) string {
	if v == nil || *v == 0 {
		return "-"
	}
	return schema.FormatOptional(v, "-")
}

// Similar picks listings like p: same city and type first, then same city,
// then simply the first few others. The result never includes p itself.
func Similar(all []schema.Property, p schema.Property, limit int) []schema.Property {
	if limit <= 0 {
		limit = MaxSimilar
	}
	pool := make([]schema.Property, 0, len(all))
	for _, x := range all {
		if x.ID != p.ID {
			pool = append(pool, x)
		}
	}

	sim := pick(pool, func(x schema.Property) bool { return x.City == p.City && x.Type == p.Type })
	if len(sim) < minSimilar {
		sim = pick(pool, func(x schema.Property) bool { return x.City == p.City })
	}
	if len(sim) < minSimilar {
		sim = pool[:min(len(pool), minSimilar)]
	}
	return sim[:min(len(sim), limit)]
}

func pick(pool []schema.Property, keep func(schema.Property) bool) []schema.Property {
	var out []schema.Property
	for _, x := range pool {
		if keep(x) {
			out = append(out, x)
		}
	}
	return out
}

// EMI returns the monthly instalment for a loan, or false when any input
// is not positive.
func EMI(principal, annualRatePct float64, years int) (float64, bool) {
	r := annualRatePct / 1200
	n := float64(years * 12)
	if principal <= 0 || r <= 0 || n <= 0 {
		return 0, false
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1), true
}

// JSONLD describes p as a schema.org listing for embedding in pages.
func JSONLD(p schema.Property) map[string]any {
	kind := p.Type
	if kind == "" {
		kind = "Apartment"
	}
	seller := p.Owner.Name
	if seller == "" {
		seller = schema.DefaultOwnerName
	}
	ld := map[string]any{
		"@context": "https://schema.org",
		"@type":    kind,
		"name":     p.Title,
		"address":  p.Address,
		"floorSize": map[string]any{
			"@type":    "QuantitativeValue",
			"value":    p.CarpetAreaSqft,
			"unitCode": "FTK",
		},
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         p.PriceINR,
			"priceCurrency": "INR",
			"availability":  "https://schema.org/InStock",
		},
		"seller": map[string]any{"@type": "Person", "name": seller},
	}
	if p.BHK != nil {
		ld["numberOfRooms"] = *p.BHK
	}
	if isFinite(p.Lat) && isFinite(p.Lng) {
		ld["geo"] = map[string]any{"@type": "GeoCoordinates", "latitude": *p.Lat, "longitude": *p.Lng}
	}
	return ld
}
