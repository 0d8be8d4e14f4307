package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appErrors "retroboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(60, 2, appErrors.NewErrorHandler(zap.NewNop(), false))
	clock := time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }
	limiter.lastCleanup = clock

	handler := limiter.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/retros/compare", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("burst then reject", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, call("10.0.0.1:4000").Code)
		assert.Equal(t, http.StatusNoContent, call("10.0.0.1:4001").Code)

		rec := call("10.0.0.1:4002")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Body.String(), `"type":"RATE_LIMITED"`)
	})

	t.Run("clients are independent", func(t *testing.T) {
		assert.Equal(t, http.StatusNoContent, call("10.0.0.2:4000").Code)
	})

	t.Run("tokens refill", func(t *testing.T) {
		clock = clock.Add(time.Second)
		assert.Equal(t, http.StatusNoContent, call("10.0.0.1:4003").Code)
	})

	t.Run("idle limiters are evicted", func(t *testing.T) {
		clock = clock.Add(idleLimiterTTL + time.Minute)
		call("10.0.0.3:4000")

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Len(t, limiter.limiters, 1)
	})
}
