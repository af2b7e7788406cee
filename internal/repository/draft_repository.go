// This file defines the repository for application drafts, the server-side
// wizard state. Each user has at most one draft row (unique user_id);
// per-step writes upsert only that step's columns so earlier and later
// step data survive backward navigation. The draft is removed in the same
// transaction that creates the application.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Yadav003/ebuspass-portal/internal/model"
)

// ErrDraftNotFound is returned when the user has no draft yet.
var ErrDraftNotFound = errors.New("draft not found")

// DraftRepo encapsulates database queries for application drafts.
type DraftRepo struct {
	db *sql.DB
}

func NewDraftRepo(db *sql.DB) *DraftRepo { return &DraftRepo{db: db} }

const draftColumns = `id, user_id,
	full_name, dob, gender, mobile, email, address, college_name, course, year_semester,
	aadhaar_doc, college_id_doc, photo_doc,
	route_id, payment_method, created_at, updated_at`

func scanDraft(row rowScanner) (*model.Draft, error) {
	var (
		d       model.Draft
		routeID sql.NullInt64
		method  sql.NullString
	)
	err := row.Scan(
		&d.ID, &d.UserID,
		&d.Personal.FullName, &d.Personal.DOB, &d.Personal.Gender, &d.Personal.Mobile,
		&d.Personal.Email, &d.Personal.Address, &d.Personal.CollegeName, &d.Personal.Course,
		&d.Personal.YearSemester,
		&d.Documents.Aadhaar, &d.Documents.CollegeID, &d.Documents.Photo,
		&routeID, &method, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if routeID.Valid {
		id := uint64(routeID.Int64)
		d.RouteID = &id
	}
	if method.Valid {
		d.PaymentMethod = method.String
	}
	return &d, nil
}

// GetByUser returns the user's draft or ErrDraftNotFound.
func (r *DraftRepo) GetByUser(ctx context.Context, userID uint64) (*model.Draft, error) {
	const q = "SELECT " + draftColumns + " FROM application_drafts WHERE user_id = ? LIMIT 1"
	d, err := scanDraft(r.db.QueryRowContext(ctx, q, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return d, nil
}

// SavePersonal upserts the personal-details step. Document, route and
// payment columns are untouched.
func (r *DraftRepo) SavePersonal(ctx context.Context, userID uint64, p model.PersonalDetails) error {
	const q = `INSERT INTO application_drafts
		(user_id, full_name, dob, gender, mobile, email, address, college_name, course, year_semester)
		VALUES (?,?,?,?,?,?,?,?,?,?)
		ON DUPLICATE KEY UPDATE
		full_name=VALUES(full_name), dob=VALUES(dob), gender=VALUES(gender),
		mobile=VALUES(mobile), email=VALUES(email), address=VALUES(address),
		college_name=VALUES(college_name), course=VALUES(course),
		year_semester=VALUES(year_semester), updated_at=CURRENT_TIMESTAMP`
	_, err := r.db.ExecContext(ctx, q, userID,
		p.FullName, p.DOB, p.Gender, p.Mobile, p.Email, p.Address,
		p.CollegeName, p.Course, p.YearSemester)
	return err
}

// SaveDocument records one uploaded document reference on the draft. The
// column is chosen by kind: aadhaar, college_id or photo.
func (r *DraftRepo) SaveDocument(ctx context.Context, userID uint64, kind, ref string) error {
	var column string
	switch kind {
	case "aadhaar":
		column = "aadhaar_doc"
	case "college_id":
		column = "college_id_doc"
	case "photo":
		column = "photo_doc"
	default:
		return errors.New("unknown document kind: " + kind)
	}
	// Column name comes from the switch above, never from input.
	q := "UPDATE application_drafts SET " + column + " = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?"
	res, err := r.db.ExecContext(ctx, q, ref, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// SaveRoute records the selected route on the draft.
func (r *DraftRepo) SaveRoute(ctx context.Context, userID, routeID uint64) error {
	const q = "UPDATE application_drafts SET route_id = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?"
	res, err := r.db.ExecContext(ctx, q, routeID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// SavePaymentMethod records the chosen payment method on the draft.
func (r *DraftRepo) SavePaymentMethod(ctx context.Context, userID uint64, method string) error {
	const q = "UPDATE application_drafts SET payment_method = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?"
	res, err := r.db.ExecContext(ctx, q, method, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// DeleteTx removes the user's draft inside the submission transaction.
// Deleting an absent draft is not an error; the INSERT of the application
// is what the transaction protects.
func (r *DraftRepo) DeleteTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM application_drafts WHERE user_id = ?", userID)
	return err
}
