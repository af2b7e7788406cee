package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/Yadav003/ebuspass-portal/internal/lifecycle"
	"github.com/Yadav003/ebuspass-portal/internal/queue"
	"github.com/Yadav003/ebuspass-portal/internal/repository"
	qp "github.com/Yadav003/ebuspass-portal/internal/service"
)

// AdminHandler serves the review queue and the reference-data catalogs.
type AdminHandler struct {
	Apps     *repository.ApplicationRepo
	Colleges *repository.CollegeRepo
	Routes   *repository.RouteRepo
}

func NewAdminHandler(apps *repository.ApplicationRepo, colleges *repository.CollegeRepo, routes *repository.RouteRepo) *AdminHandler {
	if apps == nil || colleges == nil || routes == nil {
		panic("nil repository passed to NewAdminHandler")
	}
	return &AdminHandler{Apps: apps, Colleges: colleges, Routes: routes}
}

// ListApplications handles GET /v1/admin/applications. An optional ?status=
// query narrows the list to one lifecycle status.
func (h *AdminHandler) ListApplications(c echo.Context) error {
	var status lifecycle.Status
	if raw := c.QueryParam("status"); raw != "" {
		status = lifecycle.Status(raw)
		if !lifecycle.Valid(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
		}
	}
	items, err := h.Apps.ListAll(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load applications"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetApplication handles GET /v1/admin/applications/:id.
func (h *AdminHandler) GetApplication(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}
	app, err := h.Apps.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch application"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": app})
}

// Approve handles POST /v1/admin/applications/:id/approve.
func (h *AdminHandler) Approve(c echo.Context) error {
	return h.decide(c, lifecycle.EventApprove)
}

// Reject handles POST /v1/admin/applications/:id/reject.
func (h *AdminHandler) Reject(c echo.Context) error {
	return h.decide(c, lifecycle.EventReject)
}

// decide applies a lifecycle event to one application. The row is locked
// for the duration of the transaction so two admins deciding at once
// cannot both succeed; the loser sees 409.
func (h *AdminHandler) decide(c echo.Context, ev lifecycle.Event) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid application id"})
	}
	ctx := c.Request().Context()

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

	app, err := h.Apps.GetByIDTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "application not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch application"})
	}

	next, err := lifecycle.Apply(app.Status, ev)
	if err != nil {
		if errors.Is(err, lifecycle.ErrInvalidTransition) {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":  "application is already decided",
				"status": app.Status,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to apply decision"})
	}

	if err := h.Apps.UpdateStatusTx(ctx, tx, id, next); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update application"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to commit transaction"})
	}
	committed = true
	app.Status = next

	go func(ev queue.ApplicationDecidedEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := qp.PublishApplicationDecided(ctx, ev); err != nil {
			logrus.WithError(err).Warn("publish application.decided failed")
		}
	}(queue.ApplicationDecidedEvent{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		StudentName:   app.Personal.FullName,
		Status:        string(next),
		DecidedBy:     adminID,
		DecidedAt:     time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"item": app})
}
