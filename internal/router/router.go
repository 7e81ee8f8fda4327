package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/hikewise/trail-pass-reservation/internal/config"
	"github.com/hikewise/trail-pass-reservation/internal/handler"
	"github.com/hikewise/trail-pass-reservation/internal/middleware"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Booking      *handler.BookingHandler
	Pass         *handler.PassHandler
	Admin        *handler.AdminHandler
	Availability *handler.AvailabilityHandler
}

// Register mounts every route on the provided Echo instance.
//
// Public routes carry no authentication: the health probe and the
// availability lookup, which sits behind the Redis response cache.
// Booking routes require a valid access token with the HIKER or
// ADMIN role and are rate limited per user.  Inventory and bulk
// cancellation routes are ADMIN only.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/stages/:id/availability", h.Availability.Get, cacheMW)

	limitMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("HIKER", "ADMIN"))
	auth.Use(limitMW)
	auth.POST("/orders", h.Booking.CreateOrder)
	auth.POST("/orders/:id/amend", h.Pass.Amend)
	auth.POST("/passes/:id/transfer", h.Pass.Transfer)
	auth.DELETE("/passes/:id", h.Pass.Cancel)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.PUT("/stages/:id/capacity", h.Admin.UpdateCapacity)
	admin.DELETE("/users/:id/orders", h.Admin.CancelUserOrders)
}
