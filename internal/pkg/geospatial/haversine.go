package geospatial

import (
	"math"

	"github.com/around-app/around/internal/core/domain"
)

const (
	earthRadiusKm = 6371.0

	// MilesPerMeter converts meters to statute miles.
	MilesPerMeter = 0.000621371192
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// Distance is Haversine over two positions.
func Distance(a, b domain.GeoPosition) float64 {
	return Haversine(a.Lat, a.Lon, b.Lat, b.Lon)
}

// RadiusMiles derives a search radius from the visible map area.
//
// The radius is the distance from the center to the due-east edge of the
// viewport at the center's latitude, not to the north-east corner. It
// ignores the north-south extent and shrinks towards the poles.
func RadiusMiles(bounds *domain.ViewportBounds) (float64, error) {
	if bounds == nil {
		return 0, domain.ErrBoundsUnavailable
	}
	edge := domain.GeoPosition{Lat: bounds.Center.Lat, Lon: bounds.NorthEast.Lon}
	return Distance(bounds.Center, edge) * MilesPerMeter, nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
