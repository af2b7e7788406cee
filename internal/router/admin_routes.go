package router

import (
	"github.com/labstack/echo/v4"

	"github.com/Yadav003/ebuspass-portal/internal/handler"
	"github.com/Yadav003/ebuspass-portal/internal/middleware"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin: the
// application review queue and the college and route catalogs. Catalog
// reads for everyone else live on the public router.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	// ---- Applications ----
	g.GET("/applications", h.ListApplications)
	g.GET("/applications/:id", h.GetApplication)
	g.POST("/applications/:id/approve", h.Approve)
	g.POST("/applications/:id/reject", h.Reject)

	// ---- Colleges ----
	g.POST("/colleges", h.CreateCollege)
	g.PUT("/colleges/:id", h.UpdateCollege)
	g.PATCH("/colleges/:id", h.UpdateCollege)
	g.DELETE("/colleges/:id", h.DeleteCollege)

	// ---- Routes ----
	g.POST("/routes", h.CreateRoute)
	g.PUT("/routes/:id", h.UpdateRoute)
	g.PATCH("/routes/:id", h.UpdateRoute)
	g.DELETE("/routes/:id", h.DeleteRoute)
}
