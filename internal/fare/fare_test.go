package fare

import (
	"errors"
	"math"
	"testing"
)

func TestTripFare(t *testing.T) {
	cases := []struct {
		name      string
		distance  float64
		farePerKm float64
		want      float64
		wantErr   bool
	}{
		{name: "central line", distance: 15, farePerKm: 2, want: 30},
		{name: "north express", distance: 20, farePerKm: 2, want: 40},
		{name: "fractional", distance: 12.5, farePerKm: 1.5, want: 18.75},
		{name: "zero distance", distance: 0, farePerKm: 2, wantErr: true},
		{name: "negative distance", distance: -5, farePerKm: 2, wantErr: true},
		{name: "zero fare per km", distance: 10, farePerKm: 0, wantErr: true},
		{name: "nan distance", distance: math.NaN(), farePerKm: 2, wantErr: true},
		{name: "inf fare per km", distance: 10, farePerKm: math.Inf(1), wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := TripFare(tc.distance, tc.farePerKm)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("TripFare(%v, %v) = %v, want %v", tc.distance, tc.farePerKm, got, tc.want)
			}
		})
	}
}

func TestMonthlyFare(t *testing.T) {
	// Route{distance=15, farePerKm=2} prices a monthly pass at 900.
	trip, err := TripFare(15, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := MonthlyFare(trip); got != 900 {
		t.Fatalf("MonthlyFare(%v) = %v, want 900", trip, got)
	}
}

func TestMonthlyFareKeepsPrecision(t *testing.T) {
	trip := 12.5 * 1.5
	if got := MonthlyFare(trip); got != trip*30 {
		t.Fatalf("MonthlyFare(%v) = %v, want %v", trip, got, trip*30)
	}
}
