package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Yadav003/ebuspass-portal/internal/handler"
	"github.com/Yadav003/ebuspass-portal/internal/middleware"
)

// RegisterStudent registers student-scoped endpoints under /v1. All routes
// require a valid JWT and the STUDENT role. The draft endpoints back the
// four-step wizard; submit finalises it.
func RegisterStudent(e *echo.Echo, h *handler.StudentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STUDENT"),
	)

	g.GET("/application/draft", h.GetDraft)
	g.PUT("/application/draft/personal", h.SavePersonal)
	g.POST("/application/draft/documents", h.UploadDocument)
	g.PUT("/application/draft/route", h.SaveRoute)
	g.PUT("/application/draft/payment", h.SavePaymentMethod)
	g.POST("/application/submit", h.Submit)

	g.GET("/my-applications", h.ListMine)
	g.GET("/applications/:id", h.GetMine)
}
