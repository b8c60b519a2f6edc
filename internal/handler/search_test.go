package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexvl/flight-offer-reservation/internal/amadeus"
	"github.com/alexvl/flight-offer-reservation/internal/logger"
	"github.com/alexvl/flight-offer-reservation/internal/model"
)

// fakeSearcher returns canned results and records the queries it saw.
type fakeSearcher struct {
	offers  []model.Offer
	err     error
	queries []amadeus.OfferQuery
}

func (f *fakeSearcher) SearchOffers(_ context.Context, q amadeus.OfferQuery) ([]model.Offer, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.offers, nil
}

func doSearch(t *testing.T, searcher *fakeSearcher, target string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h := NewSearchHandler(searcher, logger.NewNop())
	e.GET("/v1/offers", h.SearchOffers)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSearchOffersOK(t *testing.T) {
	f := &fakeSearcher{offers: []model.Offer{{
		ID: "1", Origin: "JFK", Destination: "CDG", Duration: "8h 15m", PriceTotal: "412.30",
	}}}
	rec := doSearch(t, f, "/v1/offers?origin=jfk&destination=cdg&date=2030-06-01&adults=2&max_price=500")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["count"])

	require.Len(t, f.queries, 1)
	// Codes are normalized to upper case before the upstream call.
	assert.Equal(t, "JFK", f.queries[0].Origin)
	assert.Equal(t, "CDG", f.queries[0].Destination)
	assert.Equal(t, 2, f.queries[0].Adults)
	assert.Equal(t, 500, f.queries[0].MaxPrice)
}

func TestSearchOffersEmptyIsNotAnError(t *testing.T) {
	f := &fakeSearcher{offers: []model.Offer{}}
	rec := doSearch(t, f, "/v1/offers?origin=JFK&destination=LHR&date=2030-06-01")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "no flights found")
	assert.Empty(t, body["data"])
}

func TestSearchOffersValidation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "missing origin", target: "/v1/offers?destination=CDG&date=2030-06-01"},
		{name: "bad origin", target: "/v1/offers?origin=J1K&destination=CDG&date=2030-06-01"},
		{name: "long code", target: "/v1/offers?origin=JFKX&destination=CDG&date=2030-06-01"},
		{name: "missing date", target: "/v1/offers?origin=JFK&destination=CDG"},
		{name: "malformed date", target: "/v1/offers?origin=JFK&destination=CDG&date=01-06-2030"},
		{name: "past date", target: "/v1/offers?origin=JFK&destination=CDG&date=2020-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSearcher{}
			rec := doSearch(t, f, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, f.queries, "invalid input must not reach the upstream client")
		})
	}
}

func TestSearchOffersUpstreamAuthError(t *testing.T) {
	f := &fakeSearcher{err: &amadeus.AuthError{StatusCode: 401, Body: `{"error":"invalid_client"}`}}
	rec := doSearch(t, f, "/v1/offers?origin=JFK&destination=CDG&date=2030-06-01")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "authentication")
}

func TestSearchOffersUpstreamRequestError(t *testing.T) {
	f := &fakeSearcher{err: &amadeus.RequestError{StatusCode: 500, Body: "boom"}}
	rec := doSearch(t, f, "/v1/offers?origin=JFK&destination=CDG&date=2030-06-01")

	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "search failed")
}
