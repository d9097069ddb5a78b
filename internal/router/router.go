// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/goevent/event-booking/internal/handler"
	"github.com/goevent/event-booking/internal/middleware"
	"github.com/goevent/event-booking/internal/model"
)

// RegisterRoutes mounts the whole API.  Catalog reads and auth are public;
// catalog writes require the ADMIN role; everything touching bookings runs
// behind JWTAuth and, when Redis is up, the rate limiter.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, ev *handler.EventHandler, b *handler.BookingHandler, jwtSecret string, rdb *redis.Client, rateLimit int) {
	e.GET("/healthz", handler.Health)

	// Public: account creation and catalog browsing.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", a.Register)
	authGroup.POST("/login", a.Login)

	e.GET("/v1/events", ev.List)
	e.GET("/v1/events/:id", ev.Get)

	// Authenticated surface.
	authed := e.Group("/v1")
	authed.Use(middleware.JWTAuth(jwtSecret))
	authed.GET("/me", a.Me)

	// Catalog writes are an admin concern.
	admin := authed.Group("")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.POST("/events", ev.Create)
	admin.PUT("/events/:id", ev.Update)
	admin.DELETE("/events/:id", ev.Delete)
	admin.GET("/bookings", b.List)

	// Booking workflow, rate limited per IP when Redis is available.
	bookings := authed.Group("")
	bookings.Use(middleware.RateLimit(rdb, rateLimit, time.Minute))
	bookings.POST("/bookings", b.Create)
	bookings.GET("/bookings/:eventId/:id", b.Get)
	bookings.PUT("/bookings/:eventId/:id", b.Update)
	bookings.DELETE("/bookings/:eventId/:id", b.Delete)
	bookings.GET("/events/:id/bookings", b.ByEvent)
	bookings.GET("/my/bookings", b.Mine)
}
