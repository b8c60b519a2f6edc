package amadeus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexvl/flight-offer-reservation/internal/logger"
)

func newTestClient(t *testing.T, tokenStatus int, offersJSON string) (*Client, *int64, *int64) {
	t.Helper()
	var tokenCalls, offerCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&tokenCalls, 1)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.FormValue("grant_type"))
		require.Equal(t, "id", r.FormValue("client_id"))
		require.Equal(t, "secret", r.FormValue("client_secret"))
		if tokenStatus != http.StatusOK {
			w.WriteHeader(tokenStatus)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"token_type":   "Bearer",
			"expires_in":   1799,
		})
	})
	mux.HandleFunc("/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&offerCalls, 1)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(offersJSON))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New("id", "secret", srv.URL+"/token", srv.URL, logger.NewNop())
	require.NoError(t, err)
	return c, &tokenCalls, &offerCalls
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New("", "", "http://unused/token", "http://unused", logger.NewNop())
	require.ErrorIs(t, err, ErrMissingCredentials)

	_, err = New("id", "", "http://unused/token", "http://unused", logger.NewNop())
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestSearchOffersTokenRejected(t *testing.T) {
	c, tokenCalls, offerCalls := newTestClient(t, http.StatusUnauthorized, `{}`)

	offers, err := c.SearchOffers(context.Background(), OfferQuery{
		Origin: "JFK", Destination: "CDG", DepartureDate: "2026-09-15",
	})
	require.Error(t, err)
	assert.Nil(t, offers)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Body, "invalid_client")

	// The auth failure must short-circuit: no call reaches the offer endpoint.
	assert.EqualValues(t, 1, atomic.LoadInt64(tokenCalls))
	assert.EqualValues(t, 0, atomic.LoadInt64(offerCalls))
}

const offersFixture = `{
  "data": [
    {
      "id": "1",
      "price": {"total": "412.30"},
      "itineraries": [{
        "duration": "PT8H15M",
        "segments": [{
          "departure": {"iataCode": "JFK", "at": "2026-09-15T18:30:00"},
          "arrival": {"iataCode": "CDG", "at": "2026-09-16T07:45:00"},
          "carrierCode": "AF"
        }]
      }]
    },
    {
      "id": "2",
      "price": {"total": "389.99"},
      "itineraries": [{
        "duration": "PT11H5M",
        "segments": [
          {
            "departure": {"iataCode": "JFK", "at": "2026-09-15T14:00:00"},
            "arrival": {"iataCode": "KEF", "at": "2026-09-15T23:30:00"},
            "carrierCode": "FI"
          },
          {
            "departure": {"iataCode": "KEF", "at": "2026-09-16T00:45:00"},
            "arrival": {"iataCode": "LHR", "at": "2026-09-16T04:05:00"},
            "carrierCode": "FI"
          }
        ]
      }]
    }
  ]
}`

func TestSearchOffersFiltersEndpoints(t *testing.T) {
	c, _, offerCalls := newTestClient(t, http.StatusOK, offersFixture)

	offers, err := c.SearchOffers(context.Background(), OfferQuery{
		Origin: "JFK", Destination: "CDG", DepartureDate: "2026-09-15",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt64(offerCalls))

	// Offer 2 lands at LHR, not CDG, and must be dropped.
	require.Len(t, offers, 1)
	assert.Equal(t, "1", offers[0].ID)
	assert.Equal(t, "JFK", offers[0].Origin)
	assert.Equal(t, "CDG", offers[0].Destination)
	assert.Equal(t, "8h 15m", offers[0].Duration)
	assert.Equal(t, "AF", offers[0].CarrierCode)
	assert.Equal(t, "412.30", offers[0].PriceTotal)
	assert.Equal(t, 0, offers[0].Stops)
}

func TestSearchOffersNoMatches(t *testing.T) {
	c, _, _ := newTestClient(t, http.StatusOK, offersFixture)

	// Requesting JFK->LHR: offer 1 arrives at CDG, offer 2 departs its first
	// segment at JFK but arrives at LHR via KEF, with matching endpoints.
	offers, err := c.SearchOffers(context.Background(), OfferQuery{
		Origin: "JFK", Destination: "LHR", DepartureDate: "2026-09-15",
	})
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "2", offers[0].ID)
	assert.Equal(t, 1, offers[0].Stops)
	assert.Equal(t, "11h 5m", offers[0].Duration)
}

func TestMatchOffersEmptyWhenNoEndpointFits(t *testing.T) {
	raw := []rawOffer{{
		ID: "x",
		Itineraries: []rawItinerary{{
			Duration: "PT2H",
			Segments: []rawSegment{{
				Departure: rawEndpoint{IataCode: "JFK"},
				Arrival:   rawEndpoint{IataCode: "CDG"},
			}},
		}},
	}}
	assert.Empty(t, matchOffers(raw, "JFK", "LHR"))
}

func TestSearchOffersUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":1799}`))
	})
	mux.HandleFunc("/shopping/flight-offers", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"errors":[{"title":"server error"}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New("id", "secret", srv.URL+"/token", srv.URL, logger.NewNop())
	require.NoError(t, err)

	_, err = c.SearchOffers(context.Background(), OfferQuery{Origin: "JFK", Destination: "CDG", DepartureDate: "2026-09-15"})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "server error")
}
