// Package fare computes bus-pass pricing from route data. All functions are
// pure: the same inputs always yield the same outputs and nothing is stored.
package fare

import (
	"errors"
	"math"
)

// MonthlyTrips is the number of trips a monthly pass is priced for.
const MonthlyTrips = 30

// ErrInvalidArgument is returned when a fare input is outside its domain
// (non-positive, NaN or infinite). Handlers should translate this into an
// HTTP 400 response.
var ErrInvalidArgument = errors.New("invalid fare argument")

// TripFare returns the per-trip fare for a route: distance in kilometres
// multiplied by the fare per kilometre. The product is kept at full float64
// precision; no rounding is applied.
func TripFare(distanceKm, farePerKm float64) (float64, error) {
	if !valid(distanceKm) || !valid(farePerKm) {
		return 0, ErrInvalidArgument
	}
	return distanceKm * farePerKm, nil
}

// MonthlyFare derives the monthly pass price from a per-trip fare.
func MonthlyFare(tripFare float64) float64 {
	return tripFare * MonthlyTrips
}

func valid(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
