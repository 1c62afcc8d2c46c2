package algo

import (
	"math"

	"github.com/tharaga/propmatch/schema"
)

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// NearestStationKm returns the distance to the closest station with finite
// coordinates. It reports false when the coordinates are missing or no
// usable station exists.
func NearestStationKm(lat, lng *float64, stations []schema.Station) (float64, bool) {
	_, km, ok := NearestStation(lat, lng, stations)
	return km, ok
}

// NearestStation returns the closest usable station and its distance.
func NearestStation(lat, lng *float64, stations []schema.Station) (schema.Station, float64, bool) {
	if !isFinite(lat) || !isFinite(lng) {
		return schema.Station{}, 0, false
	}
	var found schema.Station
	best := math.Inf(1)
	for _, s := range stations {
		if !isFinite(&s.Lat) || !isFinite(&s.Lng) {
			continue
		}
		if d := HaversineKm(*lat, *lng, s.Lat, s.Lng); d < best {
			best, found = d, s
		}
	}
	if math.IsInf(best, 1) {
		return schema.Station{}, 0, false
	}
	return found, best, true
}

func isFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
