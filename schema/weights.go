package schema

import "maps"

// ScoreWeights holds the multiplier applied to each score component.
type ScoreWeights struct {
	Text    float64 `json:"text"`
	Recency float64 `json:"recency"`
	Value   float64 `json:"value"`
	Amenity float64 `json:"amenity"`
	Metro   float64 `json:"metro"`
}

// WeightsUpdate is a partial weights change. Nil fields are left untouched.
type WeightsUpdate struct {
	Text    *float64 `json:"text,omitempty" mapstructure:"text"`
	Recency *float64 `json:"recency,omitempty" mapstructure:"recency"`
	Value   *float64 `json:"value,omitempty" mapstructure:"value"`
	Amenity *float64 `json:"amenity,omitempty" mapstructure:"amenity"`
	Metro   *float64 `json:"metro,omitempty" mapstructure:"metro"`
}

// DefaultWeights returns the built-in weights.
func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		Text:    1.0,
		Recency: 0.9,
		Value:   1.1,
		Amenity: 0.6,
		Metro:   0.8,
	}
}

// Merge returns w with every non-nil field of upd applied on top.
func (w ScoreWeights) Merge(upd WeightsUpdate) ScoreWeights {
	merged := w.AsMap()
	maps.Copy(merged, upd.AsMap())
	return WeightsFromMap(merged)
}

// AsMap returns the weights keyed by breakdown key.
func (w ScoreWeights) AsMap() map[BreakdownKey]float64 {
	return map[BreakdownKey]float64{
		BreakdownText:    w.Text,
		BreakdownRecency: w.Recency,
		BreakdownValue:   w.Value,
		BreakdownAmenity: w.Amenity,
		BreakdownMetro:   w.Metro,
	}
}

// WeightsFromMap builds weights from a breakdown map. Missing keys are zero.
func WeightsFromMap(m map[BreakdownKey]float64) ScoreWeights {
	return ScoreWeights{
		Text:    m[BreakdownText],
		Recency: m[BreakdownRecency],
		Value:   m[BreakdownValue],
		Amenity: m[BreakdownAmenity],
		Metro:   m[BreakdownMetro],
	}
}

// AsMap returns only the fields present in the update.
func (u WeightsUpdate) AsMap() map[BreakdownKey]float64 {
	out := make(map[BreakdownKey]float64)
	if u.Text != nil {
		out[BreakdownText] = *u.Text
	}
	if u.Recency != nil {
		out[BreakdownRecency] = *u.Recency
	}
	if u.Value != nil {
		out[BreakdownValue] = *u.Value
	}
	if u.Amenity != nil {
		out[BreakdownAmenity] = *u.Amenity
	}
	if u.Metro != nil {
		out[BreakdownMetro] = *u.Metro
	}
	return out
}

// IsEmpty reports whether the update changes nothing.
func (u WeightsUpdate) IsEmpty() bool {
	return len(u.AsMap()) == 0
}

// Set assigns a single weight by key. Unknown keys return false.
func (u *WeightsUpdate) Set(key BreakdownKey, v float64) bool {
	switch key {
	case BreakdownText:
		u.Text = &v
	case BreakdownRecency:
		u.Recency = &v
	case BreakdownValue:
		u.Value = &v
	case BreakdownAmenity:
		u.Amenity = &v
	case BreakdownMetro:
		u.Metro = &v
	default:
		return false
	}
	return true
}
