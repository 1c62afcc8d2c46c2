package core

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/logger"
	"github.com/tharaga/propmatch/schema"
)

// StationIndex loads the transit station list once and memoizes it.
// Concurrent first calls share a single fetch. A failed fetch memoizes an
// empty list so scoring carries on with no transit component.
type StationIndex struct {
	source contract.StationSource
	log    *logger.Logger
	group  singleflight.Group

	mu       sync.RWMutex
	loaded   bool
	stations []schema.Station
}

// NewStationIndex creates an index over a station source. A nil source yields no stations.
func NewStationIndex(source contract.StationSource, log *logger.Logger) *StationIndex {
	if log == nil {
		log = logger.Nop()
	}
	return &StationIndex{source: source, log: log}
}

// Stations returns the memoized list, fetching it on first use. The shared
// fetch outlives the caller that started it; a caller whose context ends
// first gets an empty list and nothing is memoized on its behalf.
func (x *StationIndex) Stations(ctx context.Context) []schema.Station {
	if list, ok := x.cached(); ok {
		return list
	}
	fetchCtx := context.WithoutCancel(ctx)
	ch := x.group.DoChan("stations", func() (any, error) {
		if list, ok := x.cached(); ok {
			return list, nil
		}
		list := x.fetch(fetchCtx)
		x.mu.Lock()
		x.stations, x.loaded = list, true
		x.mu.Unlock()
		return list, nil
	})
	select {
	case res := <-ch:
		return slices.Clone(res.Val.([]schema.Station))
	case <-ctx.Done():
		return []schema.Station{}
	}
}

// Reset drops the memoized list so the next call fetches again.
func (x *StationIndex) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.stations, x.loaded = nil, false
}

func (x *StationIndex) cached() ([]schema.Station, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if !x.loaded {
		return nil, false
	}
	return slices.Clone(x.stations), true
}

func (x *StationIndex) fetch(ctx context.Context) []schema.Station {
	if x.source == nil {
		return []schema.Station{}
	}
	list, err := x.source.FetchStations(ctx)
	if err != nil {
		x.log.Warn("cannot load stations, transit scoring disabled", "error", err)
		return []schema.Station{}
	}
	x.log.Debug("stations loaded", "count", len(list))
	if list == nil {
		list = []schema.Station{}
	}
	return list
}
