package sources

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/tharaga/propmatch/core/algo"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// StationFile reads stations from a JSON file or URL holding an array or
// an object with a "stations" array.
type StationFile struct {
	location string
	client   *http.Client
}

var _ contract.StationSource = &StationFile{} // Compile-time check

// NewStationSource returns a station source for location, or nil when
// location is empty.
func NewStationSource(location string, timeout time.Duration) contract.StationSource {
	if location == "" {
		return nil
	}
	return &StationFile{location: location, client: newHTTPClient(timeout)}
}

// FetchStations implements contract.StationSource. Entries without usable
// coordinates are dropped.
func (s *StationFile) FetchStations(ctx context.Context) ([]schema.Station, error) {
	data, err := readLocation(ctx, s.client, s.location)
	if err != nil {
		return nil, fmt.Errorf("station fetch failed: %w", err)
	}
	records, err := decodeRecords(data, "stations")
	if err != nil {
		return nil, err
	}

	stations := make([]schema.Station, 0, len(records))
	for _, rec := range records {
		lat, lng := coord(rec, "lat", "latitude"), coord(rec, "lng", "longitude", "lon")
		if math.IsNaN(lat) || math.IsNaN(lng) {
			continue
		}
		stations = append(stations, schema.Station{
			Name: stringField(rec, "name", "station", "title"),
			Line: stringField(rec, "line", "route"),
			Lat:  lat,
			Lng:  lng,
		})
	}
	return stations, nil
}

func coord(rec schema.RawRecord, keys ...string) float64 {
	for _, k := range keys {
		if n, ok := algo.ToNumber(rec[k]); ok {
			return n
		}
	}
	return math.NaN()
}

func stringField(rec schema.RawRecord, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
