package amadeus

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned by New when the client id or secret is
// empty. It is reported before any network call is attempted so that a
// misconfigured deployment fails at startup rather than on first search.
var ErrMissingCredentials = errors.New("amadeus: client id and secret are required")

// AuthError is returned when the token endpoint answers with a non-success
// status. No bearer token is produced and the offer-search call is skipped.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("amadeus: token request failed with status %d: %s", e.StatusCode, e.Body)
}

// RequestError is returned when the offer-search endpoint answers with a
// non-success status, or when the request itself fails. The raw response
// body is retained for logging.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("amadeus: offer request failed with status %d: %s", e.StatusCode, e.Body)
}
