package geo

import (
	"context"
	"fmt"
)

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Candidate is one ranked geocoding hit.
type Candidate struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

func (c Candidate) LatLng() LatLng {
	return LatLng{Lat: c.Lat, Lng: c.Lon}
}

// Route is a computed path between waypoints.
type Route struct {
	Coordinates []LatLng `json:"coordinates"`
	// TotalTime is in seconds, TotalDistance in meters.
	TotalTime     float64 `json:"total_time"`
	TotalDistance float64 `json:"total_distance"`
}

// Geocoder resolves free text (an address, or "lat, lon" for reverse lookups)
// into ranked candidates.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// Router computes a route through two or more waypoints.
type Router interface {
	Route(ctx context.Context, waypoints []LatLng) (Route, error)
}

// ReverseQuery is the free-text form of a coordinate accepted by Geocoder.Search
// for reverse lookups.
func ReverseQuery(pos LatLng) string {
	return fmt.Sprintf("%v, %v", pos.Lat, pos.Lng)
}
