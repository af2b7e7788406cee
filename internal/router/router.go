// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"database/sql"

	"github.com/labstack/echo/v4"

	"github.com/Yadav003/ebuspass-portal/internal/handler"
	"github.com/Yadav003/ebuspass-portal/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication. Currently
// only the health check used by load balancers and monitoring.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth registers authentication routes. Unauthenticated operations
// live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// /refresh rotates the refresh token; /refresh-access only issues a new
	// access token.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout does not require the JWT middleware; the handler accepts either
	// an Authorization header or a refresh_token body.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalog endpoints. When a
// cache middleware is supplied it is applied to these routes only; catalog
// reads are the hot path during route selection.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cache echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cache != nil {
		mws = append(mws, cache)
	}
	g := e.Group("/v1", mws...)
	g.GET("/colleges", p.ListColleges)
	g.GET("/routes", p.ListRoutes)
	g.GET("/routes/:id", p.GetRoute)
}
