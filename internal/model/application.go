package model

import (
	"time"

	"github.com/Yadav003/ebuspass-portal/internal/lifecycle"
)

// Payment status values stored in applications.payment_status.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// PersonalDetails is the student profile captured at application time. It
// is a snapshot: later profile or college-catalog edits do not alter it.
// CollegeName is deliberately a free string rather than a college id.
type PersonalDetails struct {
	FullName     string `json:"full_name"`
	DOB          string `json:"dob"`
	Gender       string `json:"gender"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	CollegeName  string `json:"college_name"`
	Course       string `json:"course"`
	YearSemester string `json:"year_semester"`
}

// Documents holds stable references (stored filenames) to the three
// uploaded artifacts. File bytes are never stored on the application.
type Documents struct {
	Aadhaar   string `json:"aadhaar"`
	CollegeID string `json:"college_id"`
	Photo     string `json:"photo"`
}

// RouteSnapshot is the chosen route's data copied onto the application at
// submission. Fare is the monthly pass price, not the per-trip fare, and
// does not change when the catalog route is later edited.
type RouteSnapshot struct {
	RouteID     uint64  `json:"route_id"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	DistanceKm  float64 `json:"distance_km"`
	Fare        float64 `json:"fare"`
}

// Payment records the simulated payment that completed the submission.
type Payment struct {
	Status        string     `json:"status"`
	Amount        float64    `json:"amount"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Method        string     `json:"method,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
}

// Application is a student's bus-pass request from submission through admin
// adjudication. It is created only by a successful submission (status
// under_review, payment completed) and afterwards mutated only by admin
// status transitions; it is never deleted.
type Application struct {
	ID        uint64           `json:"id"`
	UserID    uint64           `json:"user_id"`
	Status    lifecycle.Status `json:"status"`
	Personal  PersonalDetails  `json:"personal_details"`
	Documents Documents        `json:"documents"`
	Route     RouteSnapshot    `json:"route"`
	Payment   Payment          `json:"payment"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
