package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Yadav003/ebuspass-portal/internal/model"
	"github.com/Yadav003/ebuspass-portal/internal/repository"
)

type collegeReq struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	District string `json:"district"`
}

func (r *collegeReq) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Address = strings.TrimSpace(r.Address)
	r.District = strings.TrimSpace(r.District)
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// CreateCollege handles POST /v1/admin/colleges.
func (h *AdminHandler) CreateCollege(c echo.Context) error {
	var body collegeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := body.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	col := &model.College{Name: body.Name, Address: body.Address, District: body.District}
	if err := h.Colleges.Create(c.Request().Context(), col); err != nil {
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "college name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create college"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": col})
}

// UpdateCollege handles PUT /v1/admin/colleges/:id.
func (h *AdminHandler) UpdateCollege(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid college id"})
	}
	var body collegeReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := body.normalize(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	col := &model.College{ID: id, Name: body.Name, Address: body.Address, District: body.District}
	if err := h.Colleges.Update(c.Request().Context(), col); err != nil {
		if errors.Is(err, repository.ErrCollegeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "college not found"})
		}
		if strings.Contains(err.Error(), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "college name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": col})
}

// DeleteCollege handles DELETE /v1/admin/colleges/:id. Applications keep
// the college name as a snapshot, so deletion never touches them.
func (h *AdminHandler) DeleteCollege(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid college id"})
	}
	if err := h.Colleges.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCollegeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "college not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
