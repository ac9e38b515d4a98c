package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))
	assert.True(t, rl.Allow("5.6.7.8"), "limits are per IP")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("1.2.3.4"), "one token refills per second")
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("1.2.3.4")
	now = now.Add(5 * time.Minute)
	rl.Allow("5.6.7.8")
	now = now.Add(6 * time.Minute)

	rl.Sweep()
	assert.Equal(t, 1, rl.size())
}

func TestRateLimit_Middleware(t *testing.T) {
	done := make(chan struct{})
	defer close(done)
	handler := RateLimit(0.001, 1, done)(okHandler(nil))

	req := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	other := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	other.RemoteAddr = "10.0.0.1:5555"
	other.Header.Set("X-Real-Ip", "10.0.0.2")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_SweeperNeedsDone(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.False(t, rl.startSweeper(nil))

	done := make(chan struct{})
	assert.True(t, rl.startSweeper(done))
	close(done)

	handler := RateLimit(1, 1, nil)(okHandler(nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.10:44321"
	assert.Equal(t, "192.168.1.10", clientIP(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", clientIP(req))
}
