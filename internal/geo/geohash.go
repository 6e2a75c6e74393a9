// Package geo holds coordinate types, geohash proximity cells and the
// geocoding/routing provider adapters.
package geo

import (
	"github.com/mmcloughlin/geohash"
)

// StoragePrecision is the geohash length persisted with every trip endpoint.
// Searches compare a shorter prefix of it.
const StoragePrecision = 12

// Encode coordinates into a geohash with the given precision.
func Encode(lat, lon float64, precision uint) string {
	return geohash.EncodeWithPrecision(lat, lon, precision)
}

// Cells returns the cell containing (lat, lon) and its eight neighbours.
// Two points in the returned set are at most roughly two cell widths apart.
func Cells(lat, lon float64, precision uint) []string {
	center := geohash.EncodeWithPrecision(lat, lon, precision)
	out := make([]string, 0, 9)
	out = append(out, center)
	out = append(out, geohash.Neighbors(center)...)
	return out
}
