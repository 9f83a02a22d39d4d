// Package geo provides reverse geocoding and nearby landmark search for the
// conversation flow. Both collaborators are best-effort: callers must degrade
// gracefully when they fail or return nothing.
package geo

import (
	"context"
	"math"
)

// StructuredAddress is the administrative breakdown of a resolved address.
type StructuredAddress struct {
	Prefecture  string `json:"prefecture"`
	City        string `json:"city"`
	Oaza        string `json:"oaza"`
	Aza         string `json:"aza"`
	Detail      string `json:"detail"`
	Full        string `json:"full"`
	AreaKey     string `json:"areaKey"`
	HouseNumber string `json:"houseNumber,omitempty"`
}

// ReverseGeocodeResult is a resolved address with its optional breakdown.
type ReverseGeocodeResult struct {
	Address    string
	Structured *StructuredAddress
}

// Landmark is a nearby point of interest offered for selection.
type Landmark struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	DistanceMeters int     `json:"distanceMeters"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// Geocoder resolves coordinates to addresses and searches nearby landmarks.
// Implementations may fail; they must never block the conversation flow beyond
// the passed context.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error)
	SearchNearbyLandmarks(ctx context.Context, lat, lng float64, radiusMeters int) ([]Landmark, error)
}

const earthRadiusMeters = 6371000

// DistanceMeters returns the haversine great-circle distance between two points.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
