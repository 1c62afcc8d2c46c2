package algo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharaga/propmatch/schema"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"rupee string", "₹45,00,000", 4500000, true},
		{"area with unit", "1200 sqft", 1200, true},
		{"empty string", "", 0, false},
		{"letters only", "abc", 0, false},
		{"zero is a value", 0.0, 0, true},
		{"int", 42, 42, true},
		{"int64", int64(7), 7, true},
		{"negative", "-12.5", -12.5, true},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"bytes", []byte("900"), 900, true},
		{"json number", json.Number("3.5"), 3.5, true},
		{"two dots", "1.2.3", 0, false},
		{"lone minus", "-", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToNumber(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToArray(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"native list", []any{"a", "b"}, []string{"a", "b"}},
		{"native list drops falsy", []any{"a", "", nil, false, "b"}, []string{"a", "b"}},
		{"string slice", []string{"x", "", "y"}, []string{"x", "y"}},
		{"json text", `["a","b"]`, []string{"a", "b"}},
		{"csv text", "a, b, c", []string{"a", "b", "c"}},
		{"csv with blanks", "a,, ,b", []string{"a", "b"}},
		{"json object falls back to csv", `{"a":1}`, []string{`{"a":1}`}},
		{"nil", nil, []string{}},
		{"empty string", "", []string{}},
		{"false", false, []string{}},
		{"number", 5.0, []string{"5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToArray(tt.input))
		})
	}
}

func TestCaseConversion(t *testing.T) {
	assert.Equal(t, "price_per_sqft_i_n_r", camelToSnake("pricePerSqftINR"))
	assert.Equal(t, "owner_name", camelToSnake("ownerName"))
	assert.Equal(t, "ownerName", snakeToCamel("owner_name"))
	assert.Equal(t, "isVerified", snakeToCamel("is_verified"))
	assert.Equal(t, "title", snakeToCamel("title"))
	assert.Equal(t, "trailing_", snakeToCamel("trailing_"))
}

func TestLookup(t *testing.T) {
	t.Run("exact name first", func(t *testing.T) {
		raw := schema.RawRecord{"ownerName": "A", "owner_name": "B"}
		v, ok := lookup(raw, "ownerName")
		assert.True(t, ok)
		assert.Equal(t, "A", v)
	})

	t.Run("snake case alias", func(t *testing.T) {
		v, ok := lookup(schema.RawRecord{"floors_total": 12.0}, "floorsTotal")
		assert.True(t, ok)
		assert.Equal(t, 12.0, v)
	})

	t.Run("camel case alias", func(t *testing.T) {
		v, ok := lookup(schema.RawRecord{"docsLink": "x"}, "docs_link")
		assert.True(t, ok)
		assert.Equal(t, "x", v)
	})

	t.Run("empty string stops the probe", func(t *testing.T) {
		v, ok := lookup(schema.RawRecord{"title": "", "Title": "ignored"}, "title")
		assert.True(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("nil is skipped", func(t *testing.T) {
		v, ok := lookup(schema.RawRecord{"ownerName": nil, "owner_name": "B"}, "ownerName")
		assert.True(t, ok)
		assert.Equal(t, "B", v)
	})
}

func TestNormalizeAliasPriority(t *testing.T) {
	p := Normalize(schema.RawRecord{"price_inr": 100.0, "priceINR": 200.0})
	require.NotNil(t, p.PriceINR)
	assert.Equal(t, 200.0, *p.PriceINR)

	p = Normalize(schema.RawRecord{"price_inr": 100.0})
	require.NotNil(t, p.PriceINR)
	assert.Equal(t, 100.0, *p.PriceINR)
}

func TestNormalizeDerivedFields(t *testing.T) {
	t.Run("price per sqft", func(t *testing.T) {
		p := Normalize(schema.RawRecord{"priceINR": 4500000.0, "carpetAreaSqft": 900.0})
		require.NotNil(t, p.PricePerSqftINR)
		assert.Equal(t, 5000.0, *p.PricePerSqftINR)
	})

	t.Run("supplied price per sqft wins", func(t *testing.T) {
		p := Normalize(schema.RawRecord{"priceINR": 4500000.0, "sqft": 900.0, "price_per_sqft": "4,800"})
		require.NotNil(t, p.PricePerSqftINR)
		assert.Equal(t, 4800.0, *p.PricePerSqftINR)
	})

	t.Run("zero area leaves it unset", func(t *testing.T) {
		p := Normalize(schema.RawRecord{"priceINR": 4500000.0, "sqft": 0.0})
		assert.Nil(t, p.PricePerSqftINR)
		require.NotNil(t, p.CarpetAreaSqft)
		assert.Equal(t, 0.0, *p.CarpetAreaSqft)
	})

	t.Run("missing area leaves it unset", func(t *testing.T) {
		assert.Nil(t, Normalize(schema.RawRecord{"priceINR": 100.0}).PricePerSqftINR)
	})

	t.Run("price display", func(t *testing.T) {
		p := Normalize(schema.RawRecord{"price_inr": "45,00,000"})
		assert.Equal(t, schema.FormatINR(4500000), p.PriceDisplay)

		p = Normalize(schema.RawRecord{"price_inr": 1.0, "price_display": "₹1 only"})
		assert.Equal(t, "₹1 only", p.PriceDisplay)

		p = Normalize(schema.RawRecord{"price_inr": "99999999999999999999999"})
		assert.True(t, strings.HasPrefix(p.PriceDisplay, "₹"), p.PriceDisplay)
		assert.NotContains(t, p.PriceDisplay, "-")
	})

	t.Run("verified status", func(t *testing.T) {
		assert.Equal(t, schema.VerifiedStatus, Normalize(schema.RawRecord{"is_verified": true}).ListingStatus)
		assert.Equal(t, schema.VerifiedStatus, Normalize(schema.RawRecord{"is_verified": "Yes"}).ListingStatus)
		assert.Equal(t, "Sold", Normalize(schema.RawRecord{"is_verified": true, "listing_status": "Sold"}).ListingStatus)
		assert.Empty(t, Normalize(schema.RawRecord{"is_verified": "no"}).ListingStatus)
	})
}

func TestNormalizeOwner(t *testing.T) {
	assert.Equal(t, schema.Owner{Name: schema.DefaultOwnerName}, Normalize(schema.RawRecord{}).Owner)
	assert.Equal(t,
		schema.Owner{Name: "Ravi", Phone: "98400", Whatsapp: "98401"},
		Normalize(schema.RawRecord{"owner_name": "Ravi", "owner_phone": 98400.0, "ownerWhatsapp": "98401"}).Owner)
	assert.Equal(t, "Meena", Normalize(schema.RawRecord{"owner": "Meena"}).Owner.Name)
	assert.Equal(t,
		schema.Owner{Name: "Anu", Phone: "1"},
		Normalize(schema.RawRecord{"owner": map[string]any{"name": "Anu", "phone": "1"}}).Owner)
}

func TestNormalizeEmptyRecord(t *testing.T) {
	p := Normalize(schema.RawRecord{})
	assert.Empty(t, p.ID)
	assert.Nil(t, p.PriceINR)
	assert.Nil(t, p.Lat)
	assert.NotNil(t, p.Images)
	assert.NotNil(t, p.Amenities)
	assert.Empty(t, p.Images)
	assert.False(t, p.IsVerified)
}

func TestNormalizeCategoryAndCollections(t *testing.T) {
	p := Normalize(schema.RawRecord{
		"category":      "Rent",
		"images_json":   `["a.jpg","b.jpg"]`,
		"amenities":     []any{"Lift", "Power Backup"},
		"latitude":      "13.0",
		"property_type": "Villa",
		"description":   "Quiet street",
	})
	assert.Equal(t, "rent", p.Category)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, []string{"Lift", "Power Backup"}, p.Amenities)
	require.NotNil(t, p.Lat)
	assert.Equal(t, 13.0, *p.Lat)
	assert.Equal(t, "Villa", p.Type)
	assert.Equal(t, "Quiet street", p.Summary)
}

func TestNormalizeIdempotent(t *testing.T) {
	raws := []schema.RawRecord{
		{},
		sunriseRecord(),
		{
			"id": 17.0, "property_title": "Palm Grove", "bedrooms": "3", "floors_total": "12",
			"owner_name": "Ravi", "owner_phone": "98400", "listed_at": "2024-05-01",
			"amenities_array": []any{"gym"}, "category": "BUY", "latitude": 12.9, "longitude": 80.2,
		},
	}
	for _, raw := range raws {
		first := Normalize(raw)
		assert.Equal(t, first, Normalize(first.Raw()))
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	p := Normalize(sunriseRecord())
	assert.Equal(t, "p1", p.ID)
	require.NotNil(t, p.PricePerSqftINR)
	assert.Equal(t, 6000.0, *p.PricePerSqftINR)
	assert.Equal(t, "Verified", p.ListingStatus)
	assert.Equal(t, []string{"gym", "pool"}, p.Amenities)
	assert.Equal(t, "Owner", p.Owner.Name)
	assert.True(t, strings.HasPrefix(p.PriceDisplay, "₹"))
}

func TestNormalizeAll(t *testing.T) {
	out := NormalizeAll([]schema.RawRecord{{"id": "a"}, {"id": "b"}})
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID)
	assert.Equal(t, "b", out[1].ID)
}

func sunriseRecord() schema.RawRecord {
	return schema.RawRecord{
		"id":          "p1",
		"title":       "Sunrise Apartments",
		"city":        "Chennai",
		"locality":    "Adyar",
		"price_inr":   6000000.0,
		"sqft":        1000.0,
		"amenities":   "gym,pool",
		"is_verified": true,
	}
}
