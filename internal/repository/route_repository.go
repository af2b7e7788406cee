// This file defines repository methods for the route catalog. A route
// carries an ordered list of stops in a child table and a derived per-trip
// fare. total_fare is recomputed from distance_km and fare_per_km on every
// write; values supplied by clients are never stored. Deleting a route does
// not touch applications because they snapshot route data at submission.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Yadav003/ebuspass-portal/internal/fare"
	"github.com/Yadav003/ebuspass-portal/internal/model"
)

// ErrRouteNotFound is returned when a route cannot be found.
var ErrRouteNotFound = errors.New("route not found")

// RouteRepo encapsulates database queries for routes and their stops.
type RouteRepo struct {
	db *sql.DB
}

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{db: db} }

// DB exposes the underlying handle so callers can begin transactions
// spanning multiple repositories.
func (r *RouteRepo) DB() *sql.DB { return r.db }

// Create inserts a route and its stops in one transaction. rt.TotalFare is
// overwritten with DistanceKm * FarePerKm; fare.ErrInvalidArgument is
// returned for out-of-domain inputs and nothing is written.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	trip, err := fare.TripFare(rt.DistanceKm, rt.FarePerKm)
	if err != nil {
		return err
	}
	rt.TotalFare = trip

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const qInsert = `INSERT INTO routes (name, source, destination, distance_km, fare_per_km, total_fare)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert, rt.Name, rt.Source, rt.Destination, rt.DistanceKm, rt.FarePerKm, rt.TotalFare)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)

	if err := insertStopsTx(ctx, tx, rt.ID, rt.Stops); err != nil {
		return err
	}
	const sel = "SELECT created_at, updated_at FROM routes WHERE id = ?"
	if err := tx.QueryRowContext(ctx, sel, rt.ID).Scan(&rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	renumberStops(rt)
	return nil
}

// Update rewrites the route and replaces its stop list. The fare is
// recomputed the same way as on create.
func (r *RouteRepo) Update(ctx context.Context, rt *model.Route) error {
	trip, err := fare.TripFare(rt.DistanceKm, rt.FarePerKm)
	if err != nil {
		return err
	}
	rt.TotalFare = trip

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `UPDATE routes
	           SET name = ?, source = ?, destination = ?, distance_km = ?, fare_per_km = ?, total_fare = ?,
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, rt.Name, rt.Source, rt.Destination, rt.DistanceKm, rt.FarePerKm, rt.TotalFare, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM route_stops WHERE route_id = ?", rt.ID); err != nil {
		return err
	}
	if err := insertStopsTx(ctx, tx, rt.ID, rt.Stops); err != nil {
		return err
	}
	const sel = "SELECT created_at, updated_at FROM routes WHERE id = ?"
	if err := tx.QueryRowContext(ctx, sel, rt.ID).Scan(&rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	renumberStops(rt)
	return nil
}

// GetByID fetches a route with its stops in travel order.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	const q = `SELECT id, name, source, destination, distance_km, fare_per_km, total_fare, created_at, updated_at
	           FROM routes WHERE id = ?`
	var rt model.Route
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&rt.ID, &rt.Name, &rt.Source, &rt.Destination,
		&rt.DistanceKm, &rt.FarePerKm, &rt.TotalFare, &rt.CreatedAt, &rt.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	const stopQ = "SELECT id, route_id, seq, name FROM route_stops WHERE route_id = ? ORDER BY seq"
	rows, err := r.db.QueryContext(ctx, stopQ, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var s model.Stop
		if err := rows.Scan(&s.ID, &s.RouteID, &s.Seq, &s.Name); err != nil {
			return nil, err
		}
		rt.Stops = append(rt.Stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &rt, nil
}

// ListAll returns every route with stops populated. Stops for all routes
// are fetched in a single query and distributed by route id.
func (r *RouteRepo) ListAll(ctx context.Context) ([]*model.Route, error) {
	const q = `SELECT id, name, source, destination, distance_km, fare_per_km, total_fare, created_at, updated_at
	           FROM routes ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Route, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		rt := new(model.Route)
		if err := rows.Scan(
			&rt.ID, &rt.Name, &rt.Source, &rt.Destination,
			&rt.DistanceKm, &rt.FarePerKm, &rt.TotalFare, &rt.CreatedAt, &rt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		index[rt.ID] = len(out)
		out = append(out, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]interface{}, 0, len(out))
	placeholders := make([]string, 0, len(out))
	for _, rt := range out {
		ids = append(ids, rt.ID)
		placeholders = append(placeholders, "?")
	}
	stopQ := `SELECT id, route_id, seq, name FROM route_stops
	          WHERE route_id IN (` + strings.Join(placeholders, ",") + `)
	          ORDER BY route_id, seq`
	srows, err := r.db.QueryContext(ctx, stopQ, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s model.Stop
		if err := srows.Scan(&s.ID, &s.RouteID, &s.Seq, &s.Name); err != nil {
			return nil, err
		}
		if idx, ok := index[s.RouteID]; ok {
			out[idx].Stops = append(out[idx].Stops, s)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a route and its stops. No check is made against
// applications: their snapshots stay valid by design.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM route_stops WHERE route_id = ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM routes WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRouteNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// insertStopsTx writes the stop list with seq assigned from slice order.
func insertStopsTx(ctx context.Context, tx *sql.Tx, routeID uint64, stops []model.Stop) error {
	if len(stops) == 0 {
		return nil
	}
	query := "INSERT INTO route_stops (route_id, seq, name) VALUES "
	args := make([]interface{}, 0, len(stops)*3)
	for i, s := range stops {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, routeID, i+1, s.Name)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

func renumberStops(rt *model.Route) {
	for i := range rt.Stops {
		rt.Stops[i].RouteID = rt.ID
		rt.Stops[i].Seq = i + 1
	}
}
