// Package schema has the shared types of propmatch.
package schema

import "encoding/json"

// RawRecord is an unvalidated listing record as delivered by a source.
// Keys follow whatever convention the source uses.
type RawRecord map[string]any

// Owner holds the listing contact details.
type Owner struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Whatsapp string `json:"whatsapp"`
}

// Property is the canonical listing shape produced by normalization.
// Numeric fields are pointers: nil means unknown, zero is a real value.
type Property struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Project  string `json:"project"`
	Builder  string `json:"builder"`
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Type     string `json:"type"`

	ListingStatus string `json:"listingStatus"`
	IsVerified    bool   `json:"isVerified"`
	Furnished     string `json:"furnished"`
	Facing        string `json:"facing"`

	BHK            *float64 `json:"bhk,omitempty"`
	Bathrooms      *float64 `json:"bathrooms,omitempty"`
	CarpetAreaSqft *float64 `json:"carpetAreaSqft,omitempty"`
	Floor          *float64 `json:"floor,omitempty"`
	FloorsTotal    *float64 `json:"floorsTotal,omitempty"`

	PriceINR        *float64 `json:"priceINR,omitempty"`
	PriceDisplay    string   `json:"priceDisplay"`
	PricePerSqftINR *float64 `json:"pricePerSqftINR,omitempty"`

	City     string   `json:"city"`
	Locality string   `json:"locality"`
	State    string   `json:"state"`
	Address  string   `json:"address"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`

	Images    []string `json:"images"`
	Amenities []string `json:"amenities"`

	Rera     string `json:"rera"`
	DocsLink string `json:"docsLink"`

	Owner    Owner  `json:"owner"`
	PostedAt string `json:"postedAt,omitempty"`

	// MetroKm is the nearest transit distance, attached after normalization.
	MetroKm *float64 `json:"_metroKm,omitempty"`
}

// Station is a transit stop with coordinates.
type Station struct {
	Name string  `json:"name,omitempty"`
	Line string  `json:"line,omitempty"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// Float returns a pointer to v. Handy for building optional fields.
func Float(v float64) *float64 {
	return &v
}

// Raw serializes the property back into a record keyed by its canonical names.
func (p Property) Raw() RawRecord {
	data, err := json.Marshal(p)
	if err != nil {
		return RawRecord{}
	}
	var raw RawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawRecord{}
	}
	return raw
}
