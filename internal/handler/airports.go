package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alexvl/flight-offer-reservation/internal/airports"
)

// AirportsHandler serves IATA code lookups against the loaded catalog.
type AirportsHandler struct {
	Catalog *airports.Catalog
}

// NewAirportsHandler constructs an AirportsHandler.
func NewAirportsHandler(catalog *airports.Catalog) *AirportsHandler {
	if catalog == nil {
		panic("nil catalog passed to NewAirportsHandler")
	}
	return &AirportsHandler{Catalog: catalog}
}

// codeEntry pairs an IATA code with the airport name for selection lists.
type codeEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// FindCodes handles GET /v1/airports. Exactly one of the query parameters
// city or name selects the lookup; unknown values return an empty list so
// the caller can render "no match" rather than an error.
func (h *AirportsHandler) FindCodes(c echo.Context) error {
	city := strings.TrimSpace(c.QueryParam("city"))
	name := strings.TrimSpace(c.QueryParam("name"))

	var codes []string
	switch {
	case city != "":
		codes = h.Catalog.CodesByCity(city)
	case name != "":
		codes = h.Catalog.CodesByName(name)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city or name query parameter is required"})
	}

	entries := make([]codeEntry, 0, len(codes))
	for _, code := range codes {
		airportName, _ := h.Catalog.NameByCode(code)
		entries = append(entries, codeEntry{Code: code, Name: airportName})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": entries})
}

// GetAirport handles GET /v1/airports/:code.
func (h *AirportsHandler) GetAirport(c echo.Context) error {
	code := strings.TrimSpace(c.Param("code"))
	airport, ok := h.Catalog.Lookup(code)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "IATA code not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": airport})
}
