// This file defines repository methods for the college catalog. Colleges
// are reference data managed by admins; applications reference them by name
// only, so no referential checks are needed on update or delete.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Yadav003/ebuspass-portal/internal/model"
)

// ErrCollegeNotFound is returned when a college cannot be found.
var ErrCollegeNotFound = errors.New("college not found")

// CollegeRepo encapsulates database queries for colleges.
type CollegeRepo struct {
	db *sql.DB
}

func NewCollegeRepo(db *sql.DB) *CollegeRepo { return &CollegeRepo{db: db} }

// Create inserts a new college and re-reads the row so the caller receives
// DB-assigned id and timestamps.
func (r *CollegeRepo) Create(ctx context.Context, c *model.College) error {
	const qInsert = "INSERT INTO colleges (name, address, district) VALUES (?, ?, ?)"
	res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Address, c.District)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT name, address, district, created_at, updated_at FROM colleges WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).
		Scan(&c.Name, &c.Address, &c.District, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a college by id, returning ErrCollegeNotFound when no row
// matches.
func (r *CollegeRepo) GetByID(ctx context.Context, id uint64) (*model.College, error) {
	const q = "SELECT id, name, address, district, created_at, updated_at FROM colleges WHERE id = ?"
	var c model.College
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.District, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListAll returns the full catalog ordered by name, for both the public
// browse endpoint and the wizard's college picker.
func (r *CollegeRepo) ListAll(ctx context.Context) ([]*model.College, error) {
	const q = "SELECT id, name, address, district, created_at, updated_at FROM colleges ORDER BY name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.College, 0)
	for rows.Next() {
		c := new(model.College)
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.District, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields. Identity (id) is immutable. It
// returns ErrCollegeNotFound when no row was touched.
func (r *CollegeRepo) Update(ctx context.Context, c *model.College) error {
	const q = `UPDATE colleges
	           SET name = ?, address = ?, district = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Address, c.District, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCollegeNotFound
	}
	const sel = "SELECT name, address, district, created_at, updated_at FROM colleges WHERE id = ?"
	return r.db.QueryRowContext(ctx, sel, c.ID).
		Scan(&c.Name, &c.Address, &c.District, &c.CreatedAt, &c.UpdatedAt)
}

// Delete removes a college. Submitted applications keep their college-name
// snapshot, so nothing cascades.
func (r *CollegeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM colleges WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCollegeNotFound
	}
	return nil
}
