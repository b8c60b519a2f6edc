// Package middleware contains reusable HTTP middleware: session token
// verification, Redis response caching and Redis rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alexvl/flight-offer-reservation/internal/session"
)

// SessionAuth returns an Echo middleware that validates a Bearer session
// token and injects the session id into the request context under
// "session_id". The secret must match the one used when issuing tokens.
// Handlers behind this middleware read the id via c.Get("session_id").
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			sid, err := session.ParseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session token"})
			}
			c.Set("session_id", sid)
			return next(c)
		}
	}
}
