// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/alexvl/flight-offer-reservation/internal/config"
	"github.com/alexvl/flight-offer-reservation/internal/handler"
	"github.com/alexvl/flight-offer-reservation/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: the health check for
// load balancers and the Prometheus metrics scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterSearch registers the offer-search and airport-lookup endpoints.
// Both are unauthenticated. The search route carries the Redis response
// cache and the rate limiter; with a nil Redis client both middlewares are
// pass-throughs.
func RegisterSearch(e *echo.Echo, s *handler.SearchHandler, a *handler.AirportsHandler, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/v1/offers", s.SearchOffers, limiter, cache)
	e.GET("/v1/airports", a.FindCodes, limiter)
	e.GET("/v1/airports/:code", a.GetAirport, limiter)
}

// RegisterReservation registers the session flow and the ledger read
// endpoints. Session operations require a valid session token; opening a
// session and reading the ledger do not.
func RegisterReservation(e *echo.Echo, r *handler.ReservationHandler, sessionSecret string) {
	e.POST("/v1/session", r.StartSession)
	e.GET("/v1/reservations", r.ListReservations)
	e.GET("/v1/flights/:id/seats/:seat", r.SeatStatus)

	g := e.Group("/v1/session")
	g.Use(middleware.SessionAuth(sessionSecret))
	g.POST("/select", r.SelectOffer)
	g.POST("/passenger", r.SetPassenger)
	g.POST("/confirm", r.Confirm)
}
