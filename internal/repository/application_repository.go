// This file defines the repository for bus-pass applications. An
// application row carries the full submission snapshot: the personal
// details, the three document references, the route data as billed, and
// the payment record. Rows are created inside the submission transaction,
// mutated only by admin status updates and never deleted.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Yadav003/ebuspass-portal/internal/lifecycle"
	"github.com/Yadav003/ebuspass-portal/internal/model"
)

// ErrApplicationNotFound is returned when no application matches the id.
var ErrApplicationNotFound = errors.New("application not found")

// ErrIncompleteApplication is returned by CreateTx when a required snapshot
// field is missing. Nothing is written in that case.
var ErrIncompleteApplication = errors.New("application record missing required fields")

// ApplicationRepo encapsulates database queries for applications.
type ApplicationRepo struct {
	db *sql.DB
}

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

// DB exposes the underlying handle for transactions that span the draft
// and application repositories during submission.
func (r *ApplicationRepo) DB() *sql.DB { return r.db }

const applicationColumns = `id, user_id, status,
	full_name, dob, gender, mobile, email, address, college_name, course, year_semester,
	aadhaar_doc, college_id_doc, photo_doc,
	route_id, route_source, route_destination, route_distance_km, route_fare,
	payment_status, payment_amount, payment_txn_id, payment_method, payment_date,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanApplication(row rowScanner) (*model.Application, error) {
	var (
		a      model.Application
		status string
		txnID  sql.NullString
		method sql.NullString
		date   sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.UserID, &status,
		&a.Personal.FullName, &a.Personal.DOB, &a.Personal.Gender, &a.Personal.Mobile,
		&a.Personal.Email, &a.Personal.Address, &a.Personal.CollegeName, &a.Personal.Course,
		&a.Personal.YearSemester,
		&a.Documents.Aadhaar, &a.Documents.CollegeID, &a.Documents.Photo,
		&a.Route.RouteID, &a.Route.Source, &a.Route.Destination, &a.Route.DistanceKm, &a.Route.Fare,
		&a.Payment.Status, &a.Payment.Amount, &txnID, &method, &date,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = lifecycle.Status(status)
	if txnID.Valid {
		a.Payment.TransactionID = txnID.String
	}
	if method.Valid {
		a.Payment.Method = method.String
	}
	if date.Valid {
		d := date.Time
		a.Payment.Date = &d
	}
	return &a, nil
}

// CreateTx inserts a new application within the scope of an existing
// transaction and populates the generated id and DB timestamps on the
// given record. The caller must commit or roll back. Required snapshot
// fields are checked first so a half-built record can never be persisted.
func (r *ApplicationRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Application) error {
	if err := checkComplete(a); err != nil {
		return err
	}
	const q = `INSERT INTO applications
		(user_id, status,
		 full_name, dob, gender, mobile, email, address, college_name, course, year_semester,
		 aadhaar_doc, college_id_doc, photo_doc,
		 route_id, route_source, route_destination, route_distance_km, route_fare,
		 payment_status, payment_amount, payment_txn_id, payment_method, payment_date)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	var date interface{}
	if a.Payment.Date != nil {
		date = a.Payment.Date.UTC()
	}
	res, err := tx.ExecContext(ctx, q,
		a.UserID, string(a.Status),
		a.Personal.FullName, a.Personal.DOB, a.Personal.Gender, a.Personal.Mobile,
		a.Personal.Email, a.Personal.Address, a.Personal.CollegeName, a.Personal.Course,
		a.Personal.YearSemester,
		a.Documents.Aadhaar, a.Documents.CollegeID, a.Documents.Photo,
		a.Route.RouteID, a.Route.Source, a.Route.Destination, a.Route.DistanceKm, a.Route.Fare,
		a.Payment.Status, a.Payment.Amount, nullable(a.Payment.TransactionID), nullable(a.Payment.Method), date,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	const sel = "SELECT created_at, updated_at FROM applications WHERE id = ?"
	return tx.QueryRowContext(ctx, sel, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func checkComplete(a *model.Application) error {
	required := []string{
		a.Personal.FullName, a.Personal.DOB, a.Personal.Gender, a.Personal.Mobile,
		a.Personal.Email, a.Personal.Address, a.Personal.CollegeName, a.Personal.Course,
		a.Personal.YearSemester,
		a.Documents.Aadhaar, a.Documents.CollegeID, a.Documents.Photo,
		a.Route.Source, a.Route.Destination,
		a.Payment.Status,
	}
	for _, v := range required {
		if v == "" {
			return ErrIncompleteApplication
		}
	}
	if a.UserID == 0 || a.Route.RouteID == 0 || !lifecycle.Valid(a.Status) {
		return ErrIncompleteApplication
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// GetByID fetches an application regardless of owner; it backs the admin
// detail view.
func (r *ApplicationRepo) GetByID(ctx context.Context, id uint64) (*model.Application, error) {
	const q = "SELECT " + applicationColumns + " FROM applications WHERE id = ?"
	a, err := scanApplication(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetByIDForUser fetches an application and enforces ownership: an unknown
// id returns ErrApplicationNotFound, an id owned by someone else returns
// ErrForbidden.
func (r *ApplicationRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Application, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrForbidden
	}
	return a, nil
}

// GetByIDTx is GetByID inside a transaction with a row lock, used by the
// decide path so concurrent admin actions serialize on the record and the
// monotonic-transition invariant holds.
func (r *ApplicationRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Application, error) {
	const q = "SELECT " + applicationColumns + " FROM applications WHERE id = ? FOR UPDATE"
	a, err := scanApplication(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByUser returns the user's applications newest first. A user with no
// applications gets an empty slice, not an error.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Application, error) {
	const q = "SELECT " + applicationColumns + " FROM applications WHERE user_id = ? ORDER BY created_at DESC, id DESC"
	return r.queryList(ctx, q, userID)
}

// ListAll returns applications for the admin review queue, optionally
// filtered by status, newest first.
func (r *ApplicationRepo) ListAll(ctx context.Context, status lifecycle.Status) ([]*model.Application, error) {
	if status != "" {
		const q = "SELECT " + applicationColumns + " FROM applications WHERE status = ? ORDER BY created_at DESC, id DESC"
		return r.queryList(ctx, q, string(status))
	}
	const q = "SELECT " + applicationColumns + " FROM applications ORDER BY created_at DESC, id DESC"
	return r.queryList(ctx, q)
}

func (r *ApplicationRepo) queryList(ctx context.Context, q string, args ...interface{}) ([]*model.Application, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatusTx sets the status and refreshes updated_at, nothing else.
// It returns ErrApplicationNotFound when the id is unknown.
func (r *ApplicationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, to lifecycle.Status) error {
	const q = "UPDATE applications SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	res, err := tx.ExecContext(ctx, q, string(to), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

// HasOpen reports whether the user already has an application in a
// non-terminal status. The submit path uses it to enforce one open
// application per user; terminal records do not block, so resubmission
// after rejection is possible.
func (r *ApplicationRepo) HasOpen(ctx context.Context, userID uint64) (bool, error) {
	const q = `SELECT EXISTS(
		SELECT 1 FROM applications WHERE user_id = ? AND status IN (?, ?))`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, userID,
		string(lifecycle.StatusPending), string(lifecycle.StatusUnderReview)).Scan(&exists)
	return exists, err
}

// EnsureNoOpenTx re-checks the one-open-application rule inside the submit
// transaction, locking any matching row so two concurrent submits cannot
// both pass. Returns ErrConflict when an open application exists.
func (r *ApplicationRepo) EnsureNoOpenTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	const q = `SELECT COUNT(*) FROM applications WHERE user_id = ? AND status IN (?, ?) FOR UPDATE`
	var n int
	if err := tx.QueryRowContext(ctx, q, userID,
		string(lifecycle.StatusPending), string(lifecycle.StatusUnderReview)).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	return nil
}
