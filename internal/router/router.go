// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinebook/movie-reservation/internal/config"
	"github.com/cinebook/movie-reservation/internal/handler"
	"github.com/cinebook/movie-reservation/internal/middleware"
)

// RegisterRoutes mounts the unauthenticated surface. Only the
// liveness probe lives here.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReservations mounts the customer booking surface under /v1.
// Every route requires a valid bearer token with the CUSTOMER role.
// The availability view is cached in Redis for a short TTL since the
// same schedule/date is polled by many clients picking seats;
// reservation attempts go through the token-bucket limiter instead so
// a misbehaving client cannot hammer the insert path.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, cfg config.Config, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rateCfg := config.LoadRateLimitConfig()

	v1 := e.Group("/v1",
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole("CUSTOMER"),
	)

	v1.GET("/schedules/:id/availability", h.Availability,
		middleware.NewRedisCache(cacheCfg, rdb))

	limited := v1.Group("", middleware.NewTokenBucket(rateCfg, rdb))
	limited.POST("/reservations", h.Create)
	limited.GET("/my-reservations", h.MyReservations)
}
