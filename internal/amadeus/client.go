// Package amadeus implements the upstream flight-offer API client: a
// client-credentials token exchange and an authenticated offer search.
package amadeus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/alexvl/flight-offer-reservation/internal/logger"
	"github.com/alexvl/flight-offer-reservation/internal/model"
)

// Client talks to the flight-offer API. It holds no token state: every
// search fetches a fresh bearer token, so there is no expiry bookkeeping.
type Client struct {
	httpClient   *http.Client
	tokenURL     string
	baseURL      string
	clientID     string
	clientSecret string
	log          logger.Logger
}

// OfferQuery is the parameter set for an offer search. Origin and
// Destination are IATA location codes, DepartureDate an ISO date string
// (YYYY-MM-DD). Adults defaults to 1 when zero; MaxPrice is omitted from
// the request when zero.
type OfferQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	Adults        int
	MaxPrice      int
}

// New builds a Client. It validates that both credentials are present and
// fails with ErrMissingCredentials otherwise; this is a configuration
// error and nothing is sent over the network.
func New(clientID, clientSecret, tokenURL, baseURL string, log logger.Logger) (*Client, error) {
	if clientID == "" || clientSecret == "" {
		return nil, ErrMissingCredentials
	}
	return &Client{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		tokenURL:     tokenURL,
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		log:          log,
	}, nil
}

// token exchanges the client credentials for a bearer token. The exchange
// is a form POST with grant_type=client_credentials; a non-success status
// surfaces as an AuthError carrying the status code and response body.
func (c *Client) token(ctx context.Context) (string, error) {
	cc := clientcredentials.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		TokenURL:     c.tokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := cc.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", &AuthError{StatusCode: re.Response.StatusCode, Body: string(re.Body)}
		}
		return "", fmt.Errorf("amadeus: token request: %w", err)
	}
	return tok.AccessToken, nil
}

// SearchOffers fetches a fresh token, issues the authenticated offer-search
// GET and returns the offers whose endpoints match the query exactly. A
// failed token fetch skips the search call entirely. An empty result is
// not an error; the caller renders it as "no flights found".
func (c *Client) SearchOffers(ctx context.Context, q OfferQuery) ([]model.Offer, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	adults := q.Adults
	if adults < 1 {
		adults = 1
	}
	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartureDate)
	params.Set("adults", strconv.Itoa(adults))
	if q.MaxPrice > 0 {
		params.Set("maxPrice", strconv.Itoa(q.MaxPrice))
	}

	reqURL := c.baseURL + "/shopping/flight-offers?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amadeus: offer request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("amadeus: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var payload offersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("amadeus: decode response: %w", err)
	}

	offers := matchOffers(payload.Data, q.Origin, q.Destination)
	c.log.Info("offer search completed",
		"origin", q.Origin, "destination", q.Destination,
		"raw", len(payload.Data), "matched", len(offers))
	return offers, nil
}

// matchOffers retains only offers whose first-segment departure code and
// last-segment arrival code equal the requested endpoints. Itineraries with
// intermediate hops that start or end elsewhere do not fit the simple
// two-endpoint model the caller assumes and are dropped.
func matchOffers(raw []rawOffer, origin, destination string) []model.Offer {
	out := make([]model.Offer, 0, len(raw))
	for _, o := range raw {
		if len(o.Itineraries) == 0 {
			continue
		}
		it := o.Itineraries[0]
		if len(it.Segments) == 0 {
			continue
		}
		first := it.Segments[0]
		last := it.Segments[len(it.Segments)-1]
		if first.Departure.IataCode != origin || last.Arrival.IataCode != destination {
			continue
		}
		out = append(out, model.Offer{
			ID:          o.ID,
			Origin:      first.Departure.IataCode,
			Destination: last.Arrival.IataCode,
			DepartureAt: first.Departure.At,
			ArrivalAt:   last.Arrival.At,
			Duration:    FormatDuration(it.Duration),
			CarrierCode: first.CarrierCode,
			PriceTotal:  o.Price.Total,
			Stops:       len(it.Segments) - 1,
		})
	}
	return out
}

// Wire types mirroring the upstream response shape. Only the fields the
// service consumes are declared.

type offersResponse struct {
	Data []rawOffer `json:"data"`
}

type rawOffer struct {
	ID    string `json:"id"`
	Price struct {
		Total string `json:"total"`
	} `json:"price"`
	Itineraries []rawItinerary `json:"itineraries"`
}

type rawItinerary struct {
	Duration string       `json:"duration"`
	Segments []rawSegment `json:"segments"`
}

type rawSegment struct {
	Departure   rawEndpoint `json:"departure"`
	Arrival     rawEndpoint `json:"arrival"`
	CarrierCode string      `json:"carrierCode"`
}

type rawEndpoint struct {
	IataCode string `json:"iataCode"`
	At       string `json:"at"`
}
