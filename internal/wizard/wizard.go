// Package wizard implements the four-step application flow: personal
// details, documents, route selection, payment. Each step has a completeness
// gate; a step can only be written once every earlier step passes its gate,
// while rewriting an earlier step is always allowed and never clears later
// data. The package is pure — persistence belongs to the repositories and
// the HTTP layer.
package wizard

import (
	"errors"
	"fmt"
	"time"

	"github.com/Yadav003/ebuspass-portal/internal/fare"
	"github.com/Yadav003/ebuspass-portal/internal/lifecycle"
	"github.com/Yadav003/ebuspass-portal/internal/model"
)

// Step identifies one wizard step. Steps are ordered; there is no skipping
// forward past a failing gate.
type Step int

const (
	StepPersonalDetails Step = iota + 1
	StepDocuments
	StepRouteSelection
	StepPayment
	// StepComplete is returned by FirstIncomplete when every gate passes.
	StepComplete
)

// String returns the API name of the step.
func (s Step) String() string {
	switch s {
	case StepPersonalDetails:
		return "personal_details"
	case StepDocuments:
		return "documents"
	case StepRouteSelection:
		return "route_selection"
	case StepPayment:
		return "payment"
	case StepComplete:
		return "complete"
	}
	return "unknown"
}

// ErrValidation is the sentinel wrapped by every gate failure. Handlers
// should translate it into an HTTP 400 with the field-level message.
var ErrValidation = errors.New("validation failed")

// FieldError reports which field failed a gate and why. It unwraps to
// ErrValidation so callers can match the whole class with errors.Is.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

func missing(field string) error {
	return &FieldError{Field: field, Reason: "required"}
}

// ValidatePersonal checks the personal-details gate: all nine fields must
// be present. The college name is validated only for non-emptiness; it is a
// denormalized reference, not a catalog lookup.
func ValidatePersonal(p model.PersonalDetails) error {
	checks := []struct {
		field string
		value string
	}{
		{"full_name", p.FullName},
		{"dob", p.DOB},
		{"gender", p.Gender},
		{"mobile", p.Mobile},
		{"email", p.Email},
		{"address", p.Address},
		{"college_name", p.CollegeName},
		{"course", p.Course},
		{"year_semester", p.YearSemester},
	}
	for _, c := range checks {
		if c.value == "" {
			return missing(c.field)
		}
	}
	return nil
}

// ValidateDocuments checks the documents gate: references to all three
// artifacts must be present.
func ValidateDocuments(d model.Documents) error {
	if d.Aadhaar == "" {
		return missing("aadhaar")
	}
	if d.CollegeID == "" {
		return missing("college_id")
	}
	if d.Photo == "" {
		return missing("photo")
	}
	return nil
}

// ValidateStep checks the gate of a single step against the draft.
func ValidateStep(d model.Draft, step Step) error {
	switch step {
	case StepPersonalDetails:
		return ValidatePersonal(d.Personal)
	case StepDocuments:
		return ValidateDocuments(d.Documents)
	case StepRouteSelection:
		if d.RouteID == nil || *d.RouteID == 0 {
			return missing("route_id")
		}
		return nil
	case StepPayment:
		if d.PaymentMethod == "" {
			return missing("payment_method")
		}
		return nil
	}
	return fmt.Errorf("unknown wizard step %d", step)
}

// Gate reports whether the draft may write the given step: every earlier
// step must pass its own gate. Writing step 1 is always allowed, which is
// what makes backward navigation free.
func Gate(d model.Draft, step Step) error {
	for s := StepPersonalDetails; s < step; s++ {
		if err := ValidateStep(d, s); err != nil {
			return err
		}
	}
	return nil
}

// FirstIncomplete returns the earliest step whose gate fails, or
// StepComplete when the draft is ready to submit.
func FirstIncomplete(d model.Draft) Step {
	for s := StepPersonalDetails; s <= StepPayment; s++ {
		if ValidateStep(d, s) != nil {
			return s
		}
	}
	return StepComplete
}

// MonthlyAmount returns the monthly pass price for the route, the amount
// the payment collaborator is asked to charge. The trip fare is recomputed
// from distance and fare-per-km so corrupt catalog rows surface as
// fare.ErrInvalidArgument instead of a bogus charge.
func MonthlyAmount(rt model.Route) (float64, error) {
	trip, err := fare.TripFare(rt.DistanceKm, rt.FarePerKm)
	if err != nil {
		return 0, err
	}
	return fare.MonthlyFare(trip), nil
}

// BuildApplication assembles the Application persisted when a submission
// succeeds. All four gates must pass, the draft's selected route must match
// rt, and pay must be a completed payment — a failed simulation never
// produces an application. Route and payment data are snapshotted by value
// so later catalog edits cannot alter the billed fare.
func BuildApplication(d model.Draft, rt model.Route, pay model.Payment, now time.Time) (model.Application, error) {
	for s := StepPersonalDetails; s <= StepPayment; s++ {
		if err := ValidateStep(d, s); err != nil {
			return model.Application{}, err
		}
	}
	if *d.RouteID != rt.ID {
		return model.Application{}, &FieldError{Field: "route_id", Reason: "does not match the selected route"}
	}
	monthly, err := MonthlyAmount(rt)
	if err != nil {
		return model.Application{}, err
	}
	if pay.Status != model.PaymentCompleted {
		return model.Application{}, &FieldError{Field: "payment", Reason: "payment not completed"}
	}
	if pay.Amount != monthly {
		return model.Application{}, &FieldError{Field: "payment", Reason: "amount does not match the monthly fare"}
	}
	return model.Application{
		UserID:    d.UserID,
		Status:    lifecycle.StatusUnderReview,
		Personal:  d.Personal,
		Documents: d.Documents,
		Route: model.RouteSnapshot{
			RouteID:     rt.ID,
			Source:      rt.Source,
			Destination: rt.Destination,
			DistanceKm:  rt.DistanceKm,
			Fare:        monthly,
		},
		Payment:   pay,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
