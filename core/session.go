package core

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tharaga/propmatch/core/algo"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/logger"
	"github.com/tharaga/propmatch/schema"
)

// Lookup errors.
var (
	ErrNotFound  = errors.New("listing not found")
	ErrNoStation = errors.New("no station with known coordinates")
)

// Session holds the normalized listings and their collaborators for one
// process run. All methods are safe for concurrent use.
type Session struct {
	ID       string
	loader   contract.RecordLoader
	stations *StationIndex
	scorer   *Scorer
	log      *logger.Logger

	mu       sync.RWMutex
	props    []schema.Property
	source   schema.SourceKind
	loaded   bool
	loadedAt time.Time
	loadOnce sync.Mutex
}

// NewSession wires a session. The loader may be nil, in which case the
// session always holds an empty listing set.
func NewSession(loader contract.RecordLoader, stations *StationIndex, scorer *Scorer, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	if stations == nil {
		stations = NewStationIndex(nil, log)
	}
	if scorer == nil {
		scorer = NewScorer(nil, nil)
	}
	id := uuid.NewString()
	return &Session{
		ID:       id,
		loader:   loader,
		stations: stations,
		scorer:   scorer,
		log:      log.With("session", id),
	}
}

// Scorer returns the scorer bound to this session.
func (s *Session) Scorer() *Scorer {
	return s.scorer
}

// SourceKinds lists the sources the loader tries, when it can tell.
func (s *Session) SourceKinds() []schema.SourceKind {
	if k, ok := s.loader.(interface{ Kinds() []schema.SourceKind }); ok {
		return k.Kinds()
	}
	return nil
}

// Stations returns the memoized station list.
func (s *Session) Stations(ctx context.Context) []schema.Station {
	return s.stations.Stations(ctx)
}

// Load fetches listings on first use. Later calls are no-ops.
func (s *Session) Load(ctx context.Context) {
	s.loadOnce.Lock()
	defer s.loadOnce.Unlock()
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return
	}
	s.refresh(ctx)
}

// Refresh refetches listings and stations and returns how many listings are now cached.
func (s *Session) Refresh(ctx context.Context) int {
	s.loadOnce.Lock()
	defer s.loadOnce.Unlock()
	s.stations.Reset()
	return s.refresh(ctx)
}

func (s *Session) refresh(ctx context.Context) int {
	var (
		records  []schema.RawRecord
		kind     schema.SourceKind
		stations []schema.Station
	)

	// Records and stations load concurrently.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if s.loader != nil {
			records, kind = s.loader.Load(gctx)
		}
		return nil
	})
	g.Go(func() error {
		stations = s.stations.Stations(gctx)
		return nil
	})
	_ = g.Wait()

	// A caller that gave up is not a source failure; keep the previous state.
	if err := ctx.Err(); err != nil {
		s.log.Warn("listing load cancelled", "error", err)
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.props)
	}

	props := algo.NormalizeAll(records)
	attachMetro(props, stations)

	s.mu.Lock()
	s.props = props
	s.source = kind
	s.loaded = true
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.log.Info("listings loaded", "count", len(props), "source", kind)
	return len(props)
}

// EnrichMetro recomputes the transit distance of every cached listing.
func (s *Session) EnrichMetro(ctx context.Context) {
	stations := s.stations.Stations(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	props := slices.Clone(s.props)
	attachMetro(props, stations)
	s.props = props
}

func attachMetro(props []schema.Property, stations []schema.Station) {
	for i := range props {
		props[i].MetroKm = nil
		if km, ok := algo.NearestStationKm(props[i].Lat, props[i].Lng, stations); ok {
			props[i].MetroKm = schema.Float(km)
		}
	}
}

// Properties returns a copy of the cached listings.
func (s *Session) Properties() []schema.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.props)
}

// Find returns the cached listing with the given id.
func (s *Session) Find(id string) (schema.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.props {
		if p.ID != "" && p.ID == id {
			return p, nil
		}
	}
	return schema.Property{}, ErrNotFound
}

// Source reports which source served the current listings.
func (s *Session) Source() schema.SourceKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// LoadedAt reports when the listings were last fetched. Zero before Load.
func (s *Session) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
