package algo

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/tharaga/propmatch/schema"
)

// Tunables for the score components.
const (
	maxComponent   = 10.0
	recencyWindow  = 30.0   // days until a listing stops counting as fresh
	valueCenter    = 6000.0 // price per sqft at which value scores half marks
	valueSlope     = 800.0
	metroHalfScore = 2.0 // km at which the metro component halves
	unknownRecency = 5.0
)

// postedLayouts are the date formats seen in posted-at fields.
var postedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05Z07:00",
	time.DateOnly,
	"02/01/2006",
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ComponentScores computes the five sub-scores of p for a query and amenity
// filter. Each component lies in [0, 10].
func ComponentScores(p schema.Property, query, amenity string, now time.Time) schema.Components {
	return schema.Components{
		TextC:    textScore(p, query),
		RecencyC: recencyScore(p.PostedAt, now),
		ValueC:   valueScore(p.PricePerSqftINR),
		AmenityC: amenityScore(p.Amenities, amenity),
		MetroC:   metroScore(p.MetroKm),
	}
}

// Total is the weighted sum of the components. It is not normalized.
func Total(c schema.Components, w schema.ScoreWeights) float64 {
	return c.TextC*w.Text +
		c.RecencyC*w.Recency +
		c.ValueC*w.Value +
		c.AmenityC*w.Amenity +
		c.MetroC*w.Metro
}

// Score returns the weighted total for p.
func Score(p schema.Property, query, amenity string, w schema.ScoreWeights, now time.Time) float64 {
	return Total(ComponentScores(p, query, amenity, now), w)
}

// Explain returns the components, the weights used and the total.
func Explain(p schema.Property, query, amenity string, w schema.ScoreWeights, now time.Time) schema.ScoreBreakdown {
	c := ComponentScores(p, query, amenity, now)
	return schema.ScoreBreakdown{Components: c, Weights: w, Total: Total(c, w)}
}

// textScore rewards queries whose distinct tokens appear anywhere in the listing text.
func textScore(p schema.Property, query string) float64 {
	tokens := strings.Fields(strings.ToLower(query))
	slices.Sort(tokens)
	tokens = slices.Compact(tokens)
	if len(tokens) == 0 {
		return 0
	}
	hay := strings.ToLower(strings.Join([]string{p.Title, p.Project, p.City, p.Locality, p.Summary}, " "))
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(hay, tok) {
			hits++
		}
	}
	return maxComponent * clamp01(float64(hits)/math.Max(1, float64(len(tokens))))
}

// recencyScore decays linearly from 10 to 0 over the recency window.
func recencyScore(postedAt string, now time.Time) float64 {
	posted, ok := ParsePostedAt(postedAt)
	if !ok {
		return unknownRecency
	}
	days := now.Sub(posted).Hours() / 24
	return maxComponent * clamp01(1-days/recencyWindow)
}

// valueScore is a logistic curve favouring cheaper price per sqft.
func valueScore(pps *float64) float64 {
	if pps == nil || *pps <= 0 {
		return 0
	}
	return maxComponent * clamp01(1/(1+math.Exp((*pps-valueCenter)/valueSlope)))
}

func amenityScore(amenities []string, filter string) float64 {
	if filter == "" {
		return 0
	}
	needle := strings.ToLower(filter)
	for _, a := range amenities {
		if strings.Contains(strings.ToLower(a), needle) {
			return maxComponent
		}
	}
	return 0
}

// metroScore decays reciprocally with distance to the nearest station.
func metroScore(km *float64) float64 {
	if km == nil || math.IsNaN(*km) || math.IsInf(*km, 0) {
		return 0
	}
	return maxComponent * clamp01(1/(1+math.Max(0, *km)/metroHalfScore))
}

// ParsePostedAt parses a posted-at value in any of the known layouts.
func ParsePostedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range postedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
