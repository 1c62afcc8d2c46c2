package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharaga/propmatch/schema"
)

type countingStations struct {
	calls    atomic.Int32
	delay    time.Duration
	stations []schema.Station
	err      error
}

func (c *countingStations) FetchStations(context.Context) ([]schema.Station, error) {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return c.stations, c.err
}

var chennaiStations = []schema.Station{
	{Name: "Guindy", Line: "Blue", Lat: 13.0067, Lng: 80.2206},
	{Name: "Central", Line: "Green", Lat: 13.0827, Lng: 80.2707},
}

func TestStationIndexSharesFirstFetch(t *testing.T) {
	src := &countingStations{delay: 50 * time.Millisecond, stations: chennaiStations}
	idx := NewStationIndex(src, nil)

	var wg sync.WaitGroup
	results := make([][]schema.Station, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = idx.Stations(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	for _, r := range results {
		assert.Len(t, r, 2)
	}

	idx.Stations(context.Background())
	assert.Equal(t, int32(1), src.calls.Load(), "later calls hit the memoized list")
}

func TestStationIndexFailureMemoizesEmpty(t *testing.T) {
	src := &countingStations{err: errors.New("404")}
	idx := NewStationIndex(src, nil)

	assert.Empty(t, idx.Stations(context.Background()))
	assert.Empty(t, idx.Stations(context.Background()))
	assert.Equal(t, int32(1), src.calls.Load())

	idx.Reset()
	idx.Stations(context.Background())
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestStationIndexReturnsCopies(t *testing.T) {
	idx := NewStationIndex(&countingStations{stations: chennaiStations}, nil)
	first := idx.Stations(context.Background())
	require.Len(t, first, 2)
	first[0].Name = "changed"

	assert.Equal(t, "Guindy", idx.Stations(context.Background())[0].Name)
}

func TestStationIndexNilSource(t *testing.T) {
	idx := NewStationIndex(nil, nil)
	assert.Empty(t, idx.Stations(context.Background()))
}

func TestStationIndexCancelledCallerDoesNotMemoize(t *testing.T) {
	src := &countingStations{delay: 50 * time.Millisecond, stations: chennaiStations}
	idx := NewStationIndex(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Empty(t, idx.Stations(ctx), "a cancelled caller stops waiting")

	assert.Len(t, idx.Stations(context.Background()), 2)
	assert.Equal(t, int32(1), src.calls.Load(), "the fetch started by the cancelled caller is reused")
}

func TestSessionCancelledLoadKeepsCachesEmptyButRetryable(t *testing.T) {
	src := &countingStations{delay: 20 * time.Millisecond, stations: chennaiStations}
	loader := &fakeLoader{records: sampleRecords(), kind: schema.LocalSource}
	s := NewSession(loader, NewStationIndex(src, nil), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Load(ctx)
	assert.Empty(t, s.Properties())
	assert.True(t, s.LoadedAt().IsZero(), "a cancelled load is not recorded")

	s.Load(context.Background())
	assert.Len(t, s.Properties(), 3)
	assert.Len(t, s.Stations(context.Background()), 2)
	assert.Equal(t, 2, loader.calls)
}

func TestSessionRefreshRefetchesStations(t *testing.T) {
	src := &countingStations{stations: chennaiStations}
	s := NewSession(&fakeLoader{records: sampleRecords(), kind: schema.LocalSource}, NewStationIndex(src, nil), nil, nil)

	s.Load(context.Background())
	assert.Equal(t, int32(1), src.calls.Load())

	s.Refresh(context.Background())
	assert.Equal(t, int32(2), src.calls.Load())
	assert.Len(t, s.Stations(context.Background()), 2)
}
