package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexvl/flight-offer-reservation/internal/amadeus"
	"github.com/alexvl/flight-offer-reservation/internal/logger"
	"github.com/alexvl/flight-offer-reservation/internal/metrics"
	"github.com/alexvl/flight-offer-reservation/internal/model"
)

// OfferSearcher is the slice of the upstream client the search handler
// depends on. Declared here so tests can substitute a fake.
type OfferSearcher interface {
	SearchOffers(ctx context.Context, q amadeus.OfferQuery) ([]model.Offer, error)
}

// SearchHandler serves the offer-search endpoint.
type SearchHandler struct {
	Searcher OfferSearcher
	Log      logger.Logger
}

// NewSearchHandler constructs a SearchHandler.
func NewSearchHandler(searcher OfferSearcher, log logger.Logger) *SearchHandler {
	if searcher == nil {
		panic("nil searcher passed to NewSearchHandler")
	}
	return &SearchHandler{Searcher: searcher, Log: log}
}

// SearchOffers handles GET /v1/offers. Query parameters: origin and
// destination (IATA codes), date (YYYY-MM-DD, today or later), adults,
// max_price. A well-formed search with zero matching offers is a 200 with
// an empty data array and an informational message, not an error.
func (h *SearchHandler) SearchOffers(c echo.Context) error {
	origin := strings.ToUpper(strings.TrimSpace(c.QueryParam("origin")))
	destination := strings.ToUpper(strings.TrimSpace(c.QueryParam("destination")))
	date := strings.TrimSpace(c.QueryParam("date"))

	if !isIATA(origin) || !isIATA(destination) {
		metrics.OfferSearches.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "origin and destination must be 3-letter IATA codes"})
	}
	dep, err := time.Parse("2006-01-02", date)
	if err != nil {
		metrics.OfferSearches.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be an ISO date (YYYY-MM-DD)"})
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if dep.Before(today) {
		metrics.OfferSearches.WithLabelValues("bad_request").Inc()
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be today or later"})
	}

	adults, _ := strconv.Atoi(c.QueryParam("adults"))
	maxPrice, _ := strconv.Atoi(c.QueryParam("max_price"))

	q := amadeus.OfferQuery{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: date,
		Adults:        adults,
		MaxPrice:      maxPrice,
	}

	start := time.Now()
	offers, err := h.Searcher.SearchOffers(c.Request().Context(), q)
	metrics.UpstreamLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		var authErr *amadeus.AuthError
		if errors.As(err, &authErr) {
			metrics.OfferSearches.WithLabelValues("auth_error").Inc()
			metrics.UpstreamErrors.WithLabelValues("auth").Inc()
			h.Log.Error("upstream auth failed", "status", authErr.StatusCode, "body", authErr.Body)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "upstream authentication failed"})
		}
		var reqErr *amadeus.RequestError
		if errors.As(err, &reqErr) {
			metrics.OfferSearches.WithLabelValues("upstream_error").Inc()
			metrics.UpstreamErrors.WithLabelValues("request").Inc()
			h.Log.Error("upstream offer search failed", "status", reqErr.StatusCode, "body", reqErr.Body)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "flight search failed"})
		}
		metrics.OfferSearches.WithLabelValues("upstream_error").Inc()
		metrics.UpstreamErrors.WithLabelValues("request").Inc()
		h.Log.Error("offer search failed", "error", err)
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "flight search failed"})
	}

	if len(offers) == 0 {
		metrics.OfferSearches.WithLabelValues("empty").Inc()
		return c.JSON(http.StatusOK, echo.Map{
			"data":    []model.Offer{},
			"message": "no flights found matching your criteria",
		})
	}

	metrics.OfferSearches.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, echo.Map{
		"data":  offers,
		"count": len(offers),
	})
}

// isIATA reports whether s is a plausible IATA location code: exactly
// three ASCII letters.
func isIATA(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
