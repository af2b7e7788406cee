package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/Yadav003/ebuspass-portal/internal/lifecycle"
	"github.com/Yadav003/ebuspass-portal/internal/model"
)

func completeDraft() model.Draft {
	routeID := uint64(7)
	return model.Draft{
		UserID: 42,
		Personal: model.PersonalDetails{
			FullName:     "Asha Verma",
			DOB:          "2004-03-11",
			Gender:       "female",
			Mobile:       "9876543210",
			Email:        "asha@example.com",
			Address:      "12 College Street",
			CollegeName:  "Government Engineering College",
			Course:       "B.Tech",
			YearSemester: "2nd Year",
		},
		Documents: model.Documents{
			Aadhaar:   "doc_aadhaar_1.pdf",
			CollegeID: "doc_college_1.pdf",
			Photo:     "photo_1.jpg",
		},
		RouteID:       &routeID,
		PaymentMethod: "UPI",
	}
}

func centralLine() model.Route {
	return model.Route{
		ID:          7,
		Name:        "Route A - Central Line",
		Source:      "Central Bus Station",
		Destination: "University Campus",
		DistanceKm:  15,
		FarePerKm:   2,
		TotalFare:   30,
	}
}

func completedPayment(amount float64) model.Payment {
	now := time.Now().UTC()
	return model.Payment{
		Status:        model.PaymentCompleted,
		Amount:        amount,
		TransactionID: "TXN1700000000000",
		Method:        "UPI",
		Date:          &now,
	}
}

func TestGateBlocksForwardSkips(t *testing.T) {
	var empty model.Draft
	if err := Gate(empty, StepPersonalDetails); err != nil {
		t.Fatalf("step 1 must always be writable, got %v", err)
	}
	for _, step := range []Step{StepDocuments, StepRouteSelection, StepPayment} {
		if err := Gate(empty, step); !errors.Is(err, ErrValidation) {
			t.Fatalf("Gate(empty, %s): expected ErrValidation, got %v", step, err)
		}
	}
}

func TestGateAllowsBackwardNavigation(t *testing.T) {
	d := completeDraft()
	// Re-writing earlier steps is allowed even when later data exists.
	for _, step := range []Step{StepPersonalDetails, StepDocuments, StepRouteSelection, StepPayment} {
		if err := Gate(d, step); err != nil {
			t.Fatalf("Gate(complete, %s): %v", step, err)
		}
	}
}

func TestFirstIncomplete(t *testing.T) {
	d := completeDraft()
	if got := FirstIncomplete(d); got != StepComplete {
		t.Fatalf("complete draft: got %s", got)
	}
	d.PaymentMethod = ""
	if got := FirstIncomplete(d); got != StepPayment {
		t.Fatalf("missing method: got %s", got)
	}
	d.RouteID = nil
	if got := FirstIncomplete(d); got != StepRouteSelection {
		t.Fatalf("missing route: got %s", got)
	}
	d.Documents.Photo = ""
	if got := FirstIncomplete(d); got != StepDocuments {
		t.Fatalf("missing photo: got %s", got)
	}
	d.Personal.FullName = ""
	if got := FirstIncomplete(d); got != StepPersonalDetails {
		t.Fatalf("missing name: got %s", got)
	}
}

func TestValidatePersonalFieldMessages(t *testing.T) {
	p := completeDraft().Personal
	p.CollegeName = ""
	err := ValidatePersonal(p)
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "college_name" {
		t.Fatalf("expected field error on college_name, got %v", err)
	}
}

func TestBuildApplicationScenario(t *testing.T) {
	// Route{distance=15, farePerKm=2} with method UPI: monthly fare 900,
	// application created under_review with a completed payment.
	d := completeDraft()
	rt := centralLine()
	amount, err := MonthlyAmount(rt)
	if err != nil {
		t.Fatalf("MonthlyAmount: %v", err)
	}
	if amount != 900 {
		t.Fatalf("monthly amount = %v, want 900", amount)
	}
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	app, err := BuildApplication(d, rt, completedPayment(amount), now)
	if err != nil {
		t.Fatalf("BuildApplication: %v", err)
	}
	if app.Status != lifecycle.StatusUnderReview {
		t.Fatalf("status = %s, want under_review", app.Status)
	}
	if app.Payment.Status != model.PaymentCompleted || app.Payment.Amount != 900 {
		t.Fatalf("payment = %+v, want completed 900", app.Payment)
	}
	if app.Route.Fare != 900 || app.Route.RouteID != rt.ID {
		t.Fatalf("route snapshot = %+v", app.Route)
	}
	if app.Route.Source != rt.Source || app.Route.Destination != rt.Destination || app.Route.DistanceKm != rt.DistanceKm {
		t.Fatalf("route snapshot fields = %+v", app.Route)
	}
	if !app.CreatedAt.Equal(now) || !app.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps = %v / %v, want %v", app.CreatedAt, app.UpdatedAt, now)
	}
}

func TestBuildApplicationSnapshotDecoupledFromCatalog(t *testing.T) {
	d := completeDraft()
	rt := centralLine()
	amount, _ := MonthlyAmount(rt)
	app, err := BuildApplication(d, rt, completedPayment(amount), time.Now().UTC())
	if err != nil {
		t.Fatalf("BuildApplication: %v", err)
	}
	// An admin edit to the catalog route must not reach the snapshot.
	rt.FarePerKm = 5
	rt.Source = "Changed Terminal"
	if app.Route.Fare != 900 || app.Route.Source != "Central Bus Station" {
		t.Fatalf("snapshot changed with catalog edit: %+v", app.Route)
	}
}

func TestBuildApplicationIncompleteDraft(t *testing.T) {
	rt := centralLine()
	amount, _ := MonthlyAmount(rt)
	pay := completedPayment(amount)

	mutations := []func(*model.Draft){
		func(d *model.Draft) { d.Personal.Address = "" },
		func(d *model.Draft) { d.Documents.Aadhaar = "" },
		func(d *model.Draft) { d.RouteID = nil },
		func(d *model.Draft) { d.PaymentMethod = "" },
	}
	for i, mutate := range mutations {
		d := completeDraft()
		mutate(&d)
		if _, err := BuildApplication(d, rt, pay, time.Now().UTC()); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestBuildApplicationRejectsFailedPayment(t *testing.T) {
	d := completeDraft()
	rt := centralLine()
	pay := model.Payment{Status: model.PaymentFailed, Amount: 900, Method: "UPI"}
	if _, err := BuildApplication(d, rt, pay, time.Now().UTC()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for failed payment, got %v", err)
	}
}

func TestBuildApplicationRejectsMismatchedRoute(t *testing.T) {
	d := completeDraft()
	rt := centralLine()
	rt.ID = 99
	amount, _ := MonthlyAmount(rt)
	if _, err := BuildApplication(d, rt, completedPayment(amount), time.Now().UTC()); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for mismatched route, got %v", err)
	}
}
