package core

import (
	"time"

	"github.com/tharaga/propmatch/core/algo"
	"github.com/tharaga/propmatch/schema"
)

// Scorer scores listings with the weights currently held by a WeightsStore.
type Scorer struct {
	weights *WeightsStore
	now     func() time.Time
}

// NewScorer binds a weights store and a clock. A nil clock means time.Now.
func NewScorer(weights *WeightsStore, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{weights: weights, now: now}
}

// Weights returns the active weights.
func (s *Scorer) Weights() schema.ScoreWeights {
	if s.weights == nil {
		return schema.DefaultWeights()
	}
	return s.weights.Get()
}

// Score returns the weighted total for p.
func (s *Scorer) Score(p schema.Property, query, amenity string) float64 {
	return algo.Score(p, query, amenity, s.Weights(), s.now())
}

// Explain returns the full breakdown for p.
func (s *Scorer) Explain(p schema.Property, query, amenity string) schema.ScoreBreakdown {
	return algo.Explain(p, query, amenity, s.Weights(), s.now())
}

// ScoreAll scores a batch with one weights read and one clock reading.
func (s *Scorer) ScoreAll(props []schema.Property, query, amenity string) []schema.ScoredProperty {
	w := s.Weights()
	now := s.now()
	out := make([]schema.ScoredProperty, len(props))
	for i, p := range props {
		out[i] = schema.NewScoredProperty(p, algo.Score(p, query, amenity, w, now))
	}
	return out
}
