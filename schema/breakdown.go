package schema

// Components are the five sub-scores of a match, each in [0, 10].
type Components struct {
	TextC    float64 `json:"textC"`
	RecencyC float64 `json:"recencyC"`
	ValueC   float64 `json:"valueC"`
	AmenityC float64 `json:"amenityC"`
	MetroC   float64 `json:"metroC"`
}

// ScoreBreakdown explains a score: components, active weights and the total.
type ScoreBreakdown struct {
	Components
	Weights ScoreWeights `json:"weights"`
	Total   float64      `json:"total"`
}

// AsMap returns the components keyed by breakdown key.
func (c Components) AsMap() map[BreakdownKey]float64 {
	return map[BreakdownKey]float64{
		BreakdownText:    c.TextC,
		BreakdownRecency: c.RecencyC,
		BreakdownValue:   c.ValueC,
		BreakdownAmenity: c.AmenityC,
		BreakdownMetro:   c.MetroC,
	}
}
