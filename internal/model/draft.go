package model

import "time"

// Draft is a student's in-progress application, one row per user. It
// accumulates the four wizard steps (personal details, documents, route,
// payment method) and is deleted when the submission succeeds. Stepping
// backward in the wizard only rewrites earlier fields; later fields are
// kept.
type Draft struct {
	ID            uint64          // application_drafts.id
	UserID        uint64          // application_drafts.user_id (unique)
	Personal      PersonalDetails // columns full_name .. year_semester
	Documents     Documents       // columns aadhaar_doc, college_id_doc, photo_doc
	RouteID       *uint64         // application_drafts.route_id (nullable)
	PaymentMethod string          // application_drafts.payment_method
	CreatedAt     time.Time       // application_drafts.created_at
	UpdatedAt     time.Time       // application_drafts.updated_at
}
