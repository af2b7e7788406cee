package model

import "time"

// Route is a fixed bus itinerary managed by admins. TotalFare is derived
// from DistanceKm and FarePerKm on every write and is never accepted from
// clients. Deleting a route has no effect on applications because they
// snapshot the route data at submission time.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – route display name (e.g. "Route A - Central Line").
//  Source      – origin terminal.
//  Destination – final terminal.
//  DistanceKm  – one-way distance in kilometres, positive.
//  FarePerKm   – per-kilometre fare, positive.
//  TotalFare   – per-trip fare, always DistanceKm * FarePerKm.
//  Stops       – intermediate stops in travel order.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Route struct {
	ID          uint64    // routes.id
	Name        string    // routes.name
	Source      string    // routes.source
	Destination string    // routes.destination
	DistanceKm  float64   // routes.distance_km
	FarePerKm   float64   // routes.fare_per_km
	TotalFare   float64   // routes.total_fare (derived)
	Stops       []Stop    // loaded from route_stops
	CreatedAt   time.Time // routes.created_at
	UpdatedAt   time.Time // routes.updated_at
}

// Stop is one intermediate stop on a route. Seq gives the travel order.
type Stop struct {
	ID      uint64 // route_stops.id
	RouteID uint64 // route_stops.route_id
	Seq     int    // route_stops.seq
	Name    string // route_stops.name
}

// StopNames returns the route's stops as an ordered name list, the shape
// the API exposes.
func (r *Route) StopNames() []string {
	names := make([]string, 0, len(r.Stops))
	for _, s := range r.Stops {
		names = append(names, s.Name)
	}
	return names
}
