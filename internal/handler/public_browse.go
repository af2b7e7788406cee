package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Yadav003/ebuspass-portal/internal/repository"
)

// PublicHandler serves the unauthenticated catalog: colleges and routes.
// These endpoints sit behind the response cache, so they must stay
// read-only and user-independent.
type PublicHandler struct {
	Colleges *repository.CollegeRepo
	Routes   *repository.RouteRepo
}

func NewPublicHandler(colleges *repository.CollegeRepo, routes *repository.RouteRepo) *PublicHandler {
	if colleges == nil || routes == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Colleges: colleges, Routes: routes}
}

// ListColleges handles GET /v1/colleges.
func (h *PublicHandler) ListColleges(c echo.Context) error {
	items, err := h.Colleges.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load colleges"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListRoutes handles GET /v1/routes. Stops are included so the client can
// render the picker without extra calls.
func (h *PublicHandler) ListRoutes(c echo.Context) error {
	items, err := h.Routes.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load routes"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetRoute handles GET /v1/routes/:id.
func (h *PublicHandler) GetRoute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	rt, err := h.Routes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch route"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": rt})
}
