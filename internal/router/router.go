// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/restomap/booking-backend/internal/handler"
	"github.com/restomap/booking-backend/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check
// used by load balancers to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all member authentication routes. Login and
// refresh do not require an existing session; the rest of the /api/member
// group runs behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/member")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/api/member", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PATCH("/phone", a.UpdatePhone)
}

// RegisterBookings registers booking endpoints. All of them require a
// valid access token; ownership of individual bookings is enforced in
// the handler.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/api/bookings", middleware.JWTAuth(jwtSecret))
	g.POST("", b.Create)
	g.GET("", b.List)
	g.GET("/:id", b.Get)
}

// RegisterVenues registers unauthenticated venue browse endpoints.
// Reads are cheap but hot, so the group carries the rate limiter and
// the Redis response cache when those are enabled.
func RegisterVenues(e *echo.Echo, v *handler.VenueHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/api/venues", mw...)
	g.GET("", v.Search)
	g.GET("/:id", v.Get)
}

// RegisterInternal registers trusted-network endpoints. The fulfillment
// outcome callback is authenticated by the shared internal token since
// the workers hold no member session. The catalog import is an admin
// operation performed by a person, so it requires an access token with
// the ADMIN role instead.
func RegisterInternal(e *echo.Echo, cb *handler.CallbackHandler, imp *handler.ImportHandler, internalToken, jwtSecret string) {
	g := e.Group("/api/internal", middleware.InternalAuth(internalToken))
	g.POST("/bookings/:id/outcome", cb.ReportOutcome)

	admin := e.Group(
		"/api/internal",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	admin.POST("/import", imp.Import)
}
