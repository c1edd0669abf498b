// internal/service/geo/geo.go

package geo

import (
	"math"

	"github.com/feileberlin/krwl-hof/internal/domain/event"
)

const earthRadiusKm = 6371.0

// Distance calculates the great-circle distance between two locations in
// kilometers using the Haversine formula. Coordinate range validation is
// the caller's responsibility.
func Distance(a, b event.Location) float64 {
	// Convert latitude and longitude from degrees to radians
	lat1 := a.Latitude * math.Pi / 180.0
	lon1 := a.Longitude * math.Pi / 180.0
	lat2 := b.Latitude * math.Pi / 180.0
	lon2 := b.Longitude * math.Pi / 180.0

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	hSin := math.Sin(dLat / 2)
	hSin *= hSin

	vSin := math.Sin(dLon / 2)
	vSin *= vSin

	h := hSin + math.Cos(lat1)*math.Cos(lat2)*vSin

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether b lies within radiusKm of a.
func WithinRadius(a, b event.Location, radiusKm float64) bool {
	return Distance(a, b) <= radiusKm
}
