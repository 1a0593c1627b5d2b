package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, requests int, window time.Duration) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(requests, window)
	t.Cleanup(rl.Stop)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_Allow(t *testing.T) {
	rl, now := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, remaining, _ := rl.Allow("1.2.3.4")
		require.True(t, ok)
		assert.Equal(t, 2-i, remaining)
	}

	ok, remaining, reset := rl.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, now.Add(time.Minute), reset)

	ok, _, _ = rl.Allow("5.6.7.8")
	assert.True(t, ok, "keys are independent")

	*now = now.Add(time.Minute + time.Second)
	ok, _, _ = rl.Allow("1.2.3.4")
	assert.True(t, ok, "window slides")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl, now := newTestLimiter(t, 1, time.Second)
	rl.Allow("a")

	*now = now.Add(5 * time.Second)
	rl.cleanup()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.clients)
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)
	h := rl.Middleware(ByIP)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
}

func TestByUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ByUser(req))

	id := uuid.New()
	req = req.WithContext(WithPrincipal(req.Context(), Principal{UserID: id}))
	assert.Equal(t, "user:"+id.String(), ByUser(req))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:1234"
	assert.Equal(t, "192.168.1.10", getClientIP(req))

	// Client supplied headers do not change the key.
	req.Header.Set("X-Real-IP", "172.16.0.2")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "192.168.1.10", getClientIP(req))

	// RealIP has already replaced the address with a bare host.
	req.RemoteAddr = "203.0.113.7"
	assert.Equal(t, "203.0.113.7", getClientIP(req))
}
