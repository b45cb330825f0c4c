package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per IP")
	assert.Equal(t, 60, rl.RetryAfter("10.0.0.1"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.Zero(t, rl.RetryAfter("unknown"))
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(5, time.Second)
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }
	rl.Allow("stale")

	now = now.Add(3 * time.Second)
	rl.cleanup(now)
	assert.NotContains(t, rl.buckets, "stale")
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimitMiddleware(rl, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/units", nil)
	req.RemoteAddr = "192.0.2.7:5555"

	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// A different forwarded client has its own bucket.
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", clientIP(req))

	req.Header.Set("X-Forwarded-For", " 198.51.100.4 ,10.0.0.1")
	assert.Equal(t, "198.51.100.4", clientIP(req))
}
