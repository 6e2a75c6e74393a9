package routeselect

import (
	"fmt"
	"math"
)

// FormatDuration renders a route's travel time given in seconds.
// Up to an hour it is "N mins"; past that "H hours M mins".
func FormatDuration(totalSeconds float64) string {
	minutes := int(math.Round(totalSeconds / 60))
	if minutes > 60 {
		return fmt.Sprintf("%d hours %d mins", minutes/60, minutes%60)
	}
	return fmt.Sprintf("%d mins", minutes)
}
