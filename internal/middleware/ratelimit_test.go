package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexvl/flight-offer-reservation/internal/config"
)

func rateLimitTestConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	}
}

func newRateLimitEnv(t *testing.T, cfg config.RateLimitConfig, rdb *redis.Client) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/v1/offers", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}, NewTokenBucket(cfg, rdb))
	return e
}

func doLimited(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/offers", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitPassThroughWithoutRedis(t *testing.T) {
	e := newRateLimitEnv(t, rateLimitTestConfig(1), nil)

	for i := 0; i < 5; i++ {
		rec := doLimited(e)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitDisabledPassThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cfg := rateLimitTestConfig(1)
	cfg.Enabled = false
	e := newRateLimitEnv(t, cfg, rdb)

	for i := 0; i < 5; i++ {
		rec := doLimited(e)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitExhaustsBucket(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	e := newRateLimitEnv(t, rateLimitTestConfig(2), rdb)

	first := doLimited(e)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := doLimited(e)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := doLimited(e)
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "too_many_requests")
}
