package schema

// ScoredProperty pairs a listing with its match score for one query.
type ScoredProperty struct {
	Property
	Score        float64 `json:"score"`
	MatchPercent int     `json:"matchPercent"`
	WalkMinutes  *int    `json:"walkMinutes,omitempty"`
}

// NewScoredProperty builds a ScoredProperty with its derived display fields.
func NewScoredProperty(p Property, score float64) ScoredProperty {
	sp := ScoredProperty{
		Property:     p,
		Score:        score,
		MatchPercent: MatchPercent(score),
	}
	if m, ok := WalkMinutes(p.MetroKm); ok {
		sp.WalkMinutes = &m
	}
	return sp
}

// ListingPage is one page of a search result.
type ListingPage struct {
	Items    []ScoredProperty `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	PageSize int              `json:"pageSize"`
	Source   SourceKind       `json:"source,omitempty"`
}

// EnrichedProperty adds rank and label to a scored listing for output.
type EnrichedProperty struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
	ScoredProperty
}

// ResultPage is the serialized form of a ListingPage, with ranks and labels.
type ResultPage struct {
	Items    []EnrichedProperty `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	Pages    int                `json:"pages"`
	PageSize int                `json:"pageSize"`
	Source   SourceKind         `json:"source,omitempty"`
}

// NewResultPage ranks the items of page, continuing the numbering of earlier pages.
func NewResultPage(page ListingPage) ResultPage {
	return ResultPage{
		Items:    EnrichProperties(page.Items, (page.Page-1)*page.PageSize),
		Total:    page.Total,
		Page:     page.Page,
		Pages:    page.Pages,
		PageSize: page.PageSize,
		Source:   page.Source,
	}
}

// EnrichProperties adds rank and label to a list of scored listings.
// Ranks start at offset+1 so later pages continue the numbering.
func EnrichProperties(items []ScoredProperty, offset int) []EnrichedProperty {
	output := make([]EnrichedProperty, len(items))
	for i, sp := range items {
		output[i] = EnrichedProperty{
			Rank:           offset + i + 1,
			Label:          GetPlainLabel(sp.MatchPercent),
			ScoredProperty: sp,
		}
	}
	return output
}

// Match label constants.
const (
	ExcellentValue = "Excellent"
	StrongValue    = "Strong"
	FairValue      = "Fair"
	WeakValue      = "Weak"
)

// GetPlainLabel returns a plain text label for a match percentage.
func GetPlainLabel(percent int) string {
	switch {
	case percent >= 80:
		return ExcellentValue
	case percent >= 60:
		return StrongValue
	case percent >= 40:
		return FairValue
	default:
		return WeakValue
	}
}

// PropertyDetail is everything shown on a single listing page.
type PropertyDetail struct {
	ScoredProperty
	Breakdown      ScoreBreakdown `json:"breakdown"`
	SmartSummary   string         `json:"smartSummary"`
	Similar        []Property     `json:"similar"`
	JSONLD         map[string]any `json:"jsonLd"`
	NearestStation *Station       `json:"nearestStation,omitempty"`
	EMI            *float64       `json:"emi,omitempty"`
}

// StationMatch is the closest station to a coordinate.
type StationMatch struct {
	Station     Station `json:"station"`
	DistanceKm  float64 `json:"distanceKm"`
	WalkMinutes int     `json:"walkMinutes"`
}
