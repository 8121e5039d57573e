package domain

import "fmt"

// GeoPosition is a WGS 84 coordinate as stored by the client.
type GeoPosition struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports ErrInvalidPosition when the coordinate is out of range.
func (p GeoPosition) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: lat %v outside [-90, 90]", ErrInvalidPosition, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: lon %v outside [-180, 180]", ErrInvalidPosition, p.Lon)
	}
	return nil
}

// ViewportBounds is what the map widget reports once a drag or zoom settles.
type ViewportBounds struct {
	Center    GeoPosition `json:"center"`
	NorthEast GeoPosition `json:"north_east"`
}

// GeoOptions mirrors the options accepted by a one-shot geolocation request.
// Durations are in milliseconds; zero means no limit.
type GeoOptions struct {
	EnableHighAccuracy bool  `json:"enable_high_accuracy"`
	TimeoutMs          int64 `json:"timeout_ms"`
	MaximumAgeMs       int64 `json:"maximum_age_ms"`
}
