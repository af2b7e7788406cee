package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Yadav003/ebuspass-portal/internal/fare"
	"github.com/Yadav003/ebuspass-portal/internal/model"
	"github.com/Yadav003/ebuspass-portal/internal/repository"
)

type routeReq struct {
	Name        string   `json:"name"`
	Source      string   `json:"source"`
	Destination string   `json:"destination"`
	DistanceKm  float64  `json:"distance_km"`
	FarePerKm   float64  `json:"fare_per_km"`
	Stops       []string `json:"stops"`
}

func (r *routeReq) toModel(id uint64) (*model.Route, error) {
	r.Name = strings.TrimSpace(r.Name)
	r.Source = strings.TrimSpace(r.Source)
	r.Destination = strings.TrimSpace(r.Destination)
	if r.Name == "" || r.Source == "" || r.Destination == "" {
		return nil, errors.New("name, source and destination are required")
	}
	rt := &model.Route{
		ID:          id,
		Name:        r.Name,
		Source:      r.Source,
		Destination: r.Destination,
		DistanceKm:  r.DistanceKm,
		FarePerKm:   r.FarePerKm,
	}
	for _, s := range r.Stops {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		rt.Stops = append(rt.Stops, model.Stop{Name: s})
	}
	return rt, nil
}

// CreateRoute handles POST /v1/admin/routes. The total fare is derived
// from distance and fare-per-km; invalid numbers are rejected before
// anything is written.
func (h *AdminHandler) CreateRoute(c echo.Context) error {
	var body routeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rt, err := body.toModel(0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Routes.Create(c.Request().Context(), rt); err != nil {
		if errors.Is(err, fare.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "distance_km and fare_per_km must be positive numbers"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rt})
}

// UpdateRoute handles PUT /v1/admin/routes/:id. Existing applications keep
// their fare snapshot; only future submissions see the new fare.
func (h *AdminHandler) UpdateRoute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	var body routeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	rt, err := body.toModel(id)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.Routes.Update(c.Request().Context(), rt); err != nil {
		if errors.Is(err, fare.ErrInvalidArgument) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "distance_km and fare_per_km must be positive numbers"})
		}
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "route name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": rt})
}

// DeleteRoute handles DELETE /v1/admin/routes/:id. Submitted applications
// carry a route snapshot and survive the delete; drafts pointing at the
// route will fail their submit with a conflict instead.
func (h *AdminHandler) DeleteRoute(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	if err := h.Routes.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
