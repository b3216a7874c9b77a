// internal/matching/geo.go
package matching

import (
	"math"

	"match-workers/internal/models"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between two coordinates.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance is Haversine applied to two profile locations.
func Distance(a, b *models.Profile) float64 {
	return Haversine(a.Location.Lat, a.Location.Lng, b.Location.Lat, b.Location.Lng)
}

func anyRemote(a, b *models.Profile) bool {
	return a.Location.Remote || b.Location.Remote
}

func maxRadius(a, b *models.Profile) float64 {
	return math.Max(a.Location.RadiusKm, b.Location.RadiusKm)
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
