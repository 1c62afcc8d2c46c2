// Package algo holds the pure listing algorithms: normalization, scoring,
// distance, filtering and ranking. Nothing in here performs I/O.
package algo

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/tharaga/propmatch/schema"
)

// Normalize converts a raw record into the canonical Property.
// It is total: malformed or missing fields become unset, never an error.
func Normalize(raw schema.RawRecord) schema.Property {
	price := pickNumber(raw, "priceINR", "price_inr")
	sqft := pickNumber(raw, "carpetAreaSqft", "sqft")
	pps := pickNumber(raw, "pricePerSqftINR", "price_per_sqft")
	if pps == nil && price != nil && sqft != nil && *price != 0 && *sqft != 0 {
		pps = schema.Float(math.Round(*price / math.Max(1, *sqft)))
	}

	verified := isVerified(raw)
	status := pickString(raw, "listingStatus", "listing_status")
	if status == "" && verified {
		status = schema.VerifiedStatus
	}

	display := pickString(raw, "priceDisplay", "price_display")
	if display == "" && price != nil && *price != 0 {
		display = schema.FormatINR(*price)
	}

	return schema.Property{
		ID:       pickString(raw, "id"),
		Title:    pickString(raw, "title", "property_title"),
		Project:  pickString(raw, "project"),
		Builder:  pickString(raw, "builder"),
		Summary:  pickString(raw, "summary", "description"),
		Category: strings.ToLower(pickString(raw, "category")),
		Type:     pickString(raw, "type", "property_type"),

		ListingStatus: status,
		IsVerified:    verified,
		Furnished:     pickString(raw, "furnished"),
		Facing:        pickString(raw, "facing"),

		BHK:            pickNumber(raw, "bhk", "bedrooms"),
		Bathrooms:      pickNumber(raw, "bathrooms"),
		CarpetAreaSqft: sqft,
		Floor:          pickNumber(raw, "floor"),
		FloorsTotal:    pickNumber(raw, "floorsTotal", "floors_total"),

		PriceINR:        price,
		PriceDisplay:    display,
		PricePerSqftINR: pps,

		City:     pickString(raw, "city"),
		Locality: pickString(raw, "locality"),
		State:    pickString(raw, "state"),
		Address:  pickString(raw, "address"),
		Lat:      pickNumber(raw, "lat", "latitude"),
		Lng:      pickNumber(raw, "lng", "longitude"),

		Images:    ToArray(pickTruthy(raw, "images", "images_json", "images_array")),
		Amenities: ToArray(pickTruthy(raw, "amenities", "amenities_array")),

		Rera:     pickString(raw, "rera"),
		DocsLink: pickString(raw, "docsLink", "docs_link"),

		Owner:    normalizeOwner(raw),
		PostedAt: pickString(raw, "postedAt", "listed_at", "listedAt"),
	}
}

// NormalizeAll normalizes a batch of records in order.
func NormalizeAll(raws []schema.RawRecord) []schema.Property {
	out := make([]schema.Property, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out
}

// normalizeOwner accepts flat owner columns or a nested owner object.
func normalizeOwner(raw schema.RawRecord) schema.Owner {
	var nested schema.RawRecord
	if v, ok := lookup(raw, "owner"); ok {
		switch m := v.(type) {
		case map[string]any:
			nested = m
		case schema.RawRecord:
			nested = m
		}
	}

	owner := schema.Owner{
		Name:     pickString(raw, "ownerName", "owner_name"),
		Phone:    pickString(raw, "ownerPhone", "owner_phone"),
		Whatsapp: pickString(raw, "ownerWhatsapp", "owner_whatsapp"),
	}
	if nested != nil {
		if owner.Name == "" {
			owner.Name = pickString(nested, "name")
		}
		if owner.Phone == "" {
			owner.Phone = pickString(nested, "phone")
		}
		if owner.Whatsapp == "" {
			owner.Whatsapp = pickString(nested, "whatsapp")
		}
	} else if owner.Name == "" {
		owner.Name = pickString(raw, "owner")
	}
	if owner.Name == "" {
		owner.Name = schema.DefaultOwnerName
	}
	return owner
}

// isVerified reads the upstream verification flag in its bool or text forms.
func isVerified(raw schema.RawRecord) bool {
	v, ok := lookup(raw, "is_verified")
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "1", "yes":
			return true
		}
		return false
	default:
		n, ok := ToNumber(v)
		return ok && n != 0
	}
}

// ToNumber coerces any value to a finite number. Everything except digits,
// '.' and '-' is stripped first, so "₹45,00,000" parses as 4500000.
func ToNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		return cleanParse(t.String())
	case []byte:
		return cleanParse(string(t))
	case string:
		return cleanParse(t)
	case bool:
		return 0, false
	default:
		return cleanParse(fmt.Sprint(t))
	}
}

func cleanParse(s string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return finite(n)
}

func finite(n float64) (float64, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// ToArray coerces a value to a list of strings: native lists are kept,
// JSON-encoded lists are decoded, anything else is split on commas.
// Falsy entries are dropped; falsy input yields an empty list.
func ToArray(v any) []string {
	switch t := v.(type) {
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	case []any:
		return fromList(t)
	}
	if !truthy(v) {
		return []string{}
	}

	text := stringify(v)
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err == nil {
		if list, ok := decoded.([]any); ok {
			return fromList(list)
		}
	}

	out := []string{}
	for part := range strings.SplitSeq(text, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func fromList(list []any) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if truthy(item) {
			out = append(out, stringify(item))
		}
	}
	return out
}

// lookup probes a record under the exact name, its snake_case form and its
// camelCase form. The first non-nil value wins, so "" and false still count.
func lookup(raw schema.RawRecord, key string) (any, bool) {
	for _, k := range [3]string{key, camelToSnake(key), snakeToCamel(key)} {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// pickTruthy returns the first truthy value among the aliases.
func pickTruthy(raw schema.RawRecord, keys ...string) any {
	for _, k := range keys {
		if v, ok := lookup(raw, k); ok && truthy(v) {
			return v
		}
	}
	return nil
}

func pickString(raw schema.RawRecord, keys ...string) string {
	if v := pickTruthy(raw, keys...); v != nil {
		return stringify(v)
	}
	return ""
}

func pickNumber(raw schema.RawRecord, keys ...string) *float64 {
	for _, k := range keys {
		v, ok := lookup(raw, k)
		if !ok {
			continue
		}
		if n, ok := ToNumber(v); ok {
			return &n
		}
	}
	return nil
}

func camelToSnake(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func snakeToCamel(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '_' && i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z' {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// truthy mirrors loose truthiness: nil, "", false, 0 and NaN are falsy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []byte:
		return len(t) > 0
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint:
		return t != 0
	case uint32:
		return t != 0
	case uint64:
		return t != 0
	case json.Number:
		return t.String() != "0"
	}
	return true
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case map[string]any, schema.RawRecord, []any:
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return fmt.Sprint(v)
}
