package core

import (
	"context"
	"math"

	"github.com/tharaga/propmatch/core/algo"
	"github.com/tharaga/propmatch/schema"
)

// Loan defaults used when a detail request leaves them out.
const (
	DefaultLoanRatePct  = 8.5
	DefaultLoanYears    = 20
	DefaultLoanFraction = 0.8
)

// SearchRequest describes one listing search.
type SearchRequest struct {
	Filters  algo.Filters
	Sort     schema.SortMode
	Page     int
	PageSize int
}

// EMIRequest overrides the loan figures used for a detail view.
// Zero fields fall back to the defaults.
type EMIRequest struct {
	Principal float64
	RatePct   float64
	Years     int
}

// Search filters, scores, sorts and paginates the session listings.
func Search(ctx context.Context, s *Session, req SearchRequest) schema.ListingPage {
	s.Load(ctx)
	matched := req.Filters.Apply(s.Properties())
	scored := s.scorer.ScoreAll(matched, req.Filters.Query, req.Filters.Amenity)
	algo.SortListings(scored, req.Sort)
	page := algo.Paginate(scored, req.Page, req.PageSize)
	page.Source = s.Source()
	return page
}

// Explain returns the score breakdown of one listing.
func Explain(ctx context.Context, s *Session, id, query, amenity string) (schema.ScoreBreakdown, error) {
	s.Load(ctx)
	p, err := s.Find(id)
	if err != nil {
		return schema.ScoreBreakdown{}, err
	}
	return s.scorer.Explain(p, query, amenity), nil
}

// Details assembles the full detail view of one listing.
func Details(ctx context.Context, s *Session, id, query, amenity string, loan EMIRequest) (schema.PropertyDetail, error) {
	s.Load(ctx)
	p, err := s.Find(id)
	if err != nil {
		return schema.PropertyDetail{}, err
	}

	breakdown := s.scorer.Explain(p, query, amenity)
	detail := schema.PropertyDetail{
		ScoredProperty: schema.NewScoredProperty(p, breakdown.Total),
		Breakdown:      breakdown,
		SmartSummary:   algo.SmartSummary(p),
		Similar:        algo.Similar(s.Properties(), p, algo.MaxSimilar),
		JSONLD:         algo.JSONLD(p),
	}
	if st, _, ok := algo.NearestStation(p.Lat, p.Lng, s.stations.Stations(ctx)); ok {
		detail.NearestStation = &st
	}
	if emi, ok := algo.EMI(loanPrincipal(p, loan), valueOrDefault(loan.RatePct, DefaultLoanRatePct), loanYears(loan)); ok {
		detail.EMI = schema.Float(math.Round(emi))
	}
	return detail, nil
}

// Nearest finds the closest station to a coordinate.
func Nearest(ctx context.Context, s *Session, lat, lng float64) (schema.StationMatch, error) {
	st, km, ok := algo.NearestStation(&lat, &lng, s.stations.Stations(ctx))
	if !ok {
		return schema.StationMatch{}, ErrNoStation
	}
	walk, _ := schema.WalkMinutes(&km)
	return schema.StationMatch{Station: st, DistanceKm: km, WalkMinutes: walk}, nil
}

func loanPrincipal(p schema.Property, loan EMIRequest) float64 {
	if loan.Principal > 0 {
		return loan.Principal
	}
	if p.PriceINR == nil {
		return 0
	}
	return *p.PriceINR * DefaultLoanFraction
}

func loanYears(loan EMIRequest) int {
	if loan.Years > 0 {
		return loan.Years
	}
	return DefaultLoanYears
}

func valueOrDefault(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
