package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Yadav003/ebuspass-portal/internal/model"
	"github.com/Yadav003/ebuspass-portal/internal/payment"
	"github.com/Yadav003/ebuspass-portal/internal/queue"
	"github.com/Yadav003/ebuspass-portal/internal/repository"
	qp "github.com/Yadav003/ebuspass-portal/internal/service"
	"github.com/Yadav003/ebuspass-portal/internal/storage"
	"github.com/Yadav003/ebuspass-portal/internal/wizard"
)

// StudentHandler serves the application wizard: draft persistence for each
// step, submission, and the student's own application history. JWT and role
// checks are done by middleware; every method still verifies ownership
// before returning data.
type StudentHandler struct {
	Drafts *repository.DraftRepo
	Apps   *repository.ApplicationRepo
	Routes *repository.RouteRepo
	Store  storage.DocumentStore
	Pay    payment.Processor
}

func NewStudentHandler(drafts *repository.DraftRepo, apps *repository.ApplicationRepo, routes *repository.RouteRepo, store storage.DocumentStore, pay payment.Processor) *StudentHandler {
	if drafts == nil || apps == nil || routes == nil || store == nil || pay == nil {
		panic("nil dependency passed to NewStudentHandler")
	}
	return &StudentHandler{Drafts: drafts, Apps: apps, Routes: routes, Store: store, Pay: pay}
}

// draftResp is the wire shape of a draft plus the wizard position.
type draftResp struct {
	Personal      model.PersonalDetails `json:"personal_details"`
	Documents     model.Documents       `json:"documents"`
	RouteID       *uint64               `json:"route_id"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	NextStep      string                `json:"next_step"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toDraftResp(d *model.Draft) draftResp {
	return draftResp{
		Personal:      d.Personal,
		Documents:     d.Documents,
		RouteID:       d.RouteID,
		PaymentMethod: d.PaymentMethod,
		NextStep:      wizard.FirstIncomplete(*d).String(),
		UpdatedAt:     d.UpdatedAt,
	}
}

// GetDraft handles GET /v1/application/draft. A student with no draft gets
// an empty draft positioned at the first step rather than a 404, so the
// client can always render the wizard from this one call.
func (h *StudentHandler) GetDraft(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	d, err := h.Drafts.GetByUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return c.JSON(http.StatusOK, draftResp{NextStep: wizard.StepPersonalDetails.String()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	return c.JSON(http.StatusOK, toDraftResp(d))
}

// SavePersonal handles PUT /v1/application/draft/personal. Step one is
// always writable; saving it creates the draft row when none exists.
func (h *StudentHandler) SavePersonal(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var p model.PersonalDetails
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	trimPersonal(&p)
	if err := wizard.ValidatePersonal(p); err != nil {
		return validationError(c, err)
	}
	if err := h.Drafts.SavePersonal(c.Request().Context(), userID, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save draft"})
	}
	return h.respondDraft(c, userID)
}

// UploadDocument handles POST /v1/application/draft/documents. The request
// is multipart with a "kind" field (aadhaar, college_id or photo) and a
// "file" part. Re-uploading a kind replaces the previous reference.
func (h *StudentHandler) UploadDocument(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if _, err := h.requireDraftAt(c, userID, wizard.StepDocuments); err != nil {
		return nil // response already written
	}

	kind := strings.TrimSpace(c.FormValue("kind"))
	switch kind {
	case "aadhaar", "college_id", "photo":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be aadhaar, college_id or photo"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file is required"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "failed to read upload"})
	}
	defer src.Close()

	ref, err := h.Store.Save(fh.Filename, src)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyFile) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "uploaded file is empty"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store document"})
	}

	if err := h.Drafts.SaveDocument(c.Request().Context(), userID, kind, ref); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save draft"})
	}
	return h.respondDraft(c, userID)
}

// SaveRoute handles PUT /v1/application/draft/route. The route must exist
// in the catalog; the draft stores only its ID, the fare snapshot is taken
// at submit time.
func (h *StudentHandler) SaveRoute(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if _, err := h.requireDraftAt(c, userID, wizard.StepRouteSelection); err != nil {
		return nil
	}
	var body struct {
		RouteID uint64 `json:"route_id"`
	}
	if err := c.Bind(&body); err != nil || body.RouteID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_id is required"})
	}
	if _, err := h.Routes.GetByID(c.Request().Context(), body.RouteID); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Drafts.SaveRoute(c.Request().Context(), userID, body.RouteID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save draft"})
	}
	return h.respondDraft(c, userID)
}

// SavePaymentMethod handles PUT /v1/application/draft/payment. Only the
// chosen method is stored; no charge happens until submit.
func (h *StudentHandler) SavePaymentMethod(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if _, err := h.requireDraftAt(c, userID, wizard.StepPayment); err != nil {
		return nil
	}
	var body struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&body); err != nil || strings.TrimSpace(body.Method) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method is required"})
	}
	if err := h.Drafts.SavePaymentMethod(c.Request().Context(), userID, strings.TrimSpace(body.Method)); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save draft"})
	}
	return h.respondDraft(c, userID)
}

// Submit handles POST /v1/application/submit. It charges the monthly fare
// through the payment processor and, in one transaction, creates the
// application in under_review and deletes the draft. A failed charge leaves
// the draft untouched so the student can retry.
func (h *StudentHandler) Submit(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()

	d, err := h.Drafts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no draft to submit"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	if step := wizard.FirstIncomplete(*d); step != wizard.StepComplete {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":     "application is incomplete",
			"next_step": step.String(),
		})
	}

	open, err := h.Apps.HasOpen(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if open {
		return c.JSON(http.StatusConflict, echo.Map{"error": "an application is already in review"})
	}

	rt, err := h.Routes.GetByID(ctx, *d.RouteID)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "selected route no longer exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	amount, err := wizard.MonthlyAmount(*rt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fare computation failed"})
	}

	receipt, err := h.Pay.Process(ctx, amount, d.PaymentMethod)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidCharge) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment request"})
		}
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment failed"})
	}

	pay := model.Payment{
		Status:        receipt.Status,
		Amount:        receipt.Amount,
		TransactionID: receipt.TransactionID,
		Method:        receipt.Method,
		Date:          &receipt.Date,
	}
	app, err := wizard.BuildApplication(*d, *rt, pay, time.Now().UTC())
	if err != nil {
		return validationError(c, err)
	}

	tx, err := h.Apps.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	// Re-check under the lock; the earlier HasOpen only spared the student a
	// pointless charge.
	if err := h.Apps.EnsureNoOpenTx(ctx, tx, userID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "an application is already in review"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Apps.CreateTx(ctx, tx, &app); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create application"})
	}
	if err := h.Drafts.DeleteTx(ctx, tx, userID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to clear draft"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true

	// Broker publish is best effort; the submission already succeeded.
	go func(ev queue.ApplicationSubmittedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := qp.PublishApplicationSubmitted(ctx, ev); err != nil {
			logrus.WithError(err).Warn("publish application.submitted failed")
		}
	}(queue.ApplicationSubmittedEvent{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		StudentName:   app.Personal.FullName,
		CollegeName:   app.Personal.CollegeName,
		RouteID:       app.Route.RouteID,
		RouteSource:   app.Route.Source,
		RouteDest:     app.Route.Destination,
		Fare:          app.Route.Fare,
		TransactionID: app.Payment.TransactionID,
		SubmittedAt:   app.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"item": app})
}

// ListMine handles GET /v1/my-applications.
func (h *StudentHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Apps.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load applications"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetMine handles GET /v1/applications/:id for the owning student.
func (h *StudentHandler) GetMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}
	app, err := h.Apps.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch application"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": app})
}

// requireDraftAt loads the draft and checks the wizard gate for a step.
// On failure the HTTP response is already written and the caller should
// return nil.
func (h *StudentHandler) requireDraftAt(c echo.Context, userID uint64, step wizard.Step) (*model.Draft, error) {
	d, err := h.Drafts.GetByUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			_ = c.JSON(http.StatusConflict, echo.Map{
				"error":     "complete earlier steps first",
				"next_step": wizard.StepPersonalDetails.String(),
			})
			return nil, err
		}
		_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
		return nil, err
	}
	if err := wizard.Gate(*d, step); err != nil {
		_ = c.JSON(http.StatusConflict, echo.Map{
			"error":     "complete earlier steps first",
			"next_step": wizard.FirstIncomplete(*d).String(),
		})
		return nil, err
	}
	return d, nil
}

func (h *StudentHandler) respondDraft(c echo.Context, userID uint64) error {
	d, err := h.Drafts.GetByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load draft"})
	}
	return c.JSON(http.StatusOK, toDraftResp(d))
}

func validationError(c echo.Context, err error) error {
	var fe *wizard.FieldError
	if errors.As(err, &fe) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fe.Reason, "field": fe.Field})
	}
	if errors.Is(err, wizard.ErrValidation) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "validation failed"})
}

func trimPersonal(p *model.PersonalDetails) {
	p.FullName = strings.TrimSpace(p.FullName)
	p.DOB = strings.TrimSpace(p.DOB)
	p.Gender = strings.TrimSpace(p.Gender)
	p.Mobile = strings.TrimSpace(p.Mobile)
	p.Email = strings.TrimSpace(p.Email)
	p.Address = strings.TrimSpace(p.Address)
	p.CollegeName = strings.TrimSpace(p.CollegeName)
	p.Course = strings.TrimSpace(p.Course)
	p.YearSemester = strings.TrimSpace(p.YearSemester)
}
