package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func limitedRequest(handler http.Handler, ip string) int {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = ip + ":12345"
	handler.ServeHTTP(w, r)
	return w.Code
}

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	limiter := NewRateLimiter(3, time.Minute)
	handler := limiter.Limit(okHandler())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, limitedRequest(handler, "203.0.113.5"))
	}
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "203.0.113.5"))
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	limiter := NewRateLimiter(1, time.Minute)
	handler := limiter.Limit(okHandler())

	assert.Equal(t, http.StatusNoContent, limitedRequest(handler, "203.0.113.5"))
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "203.0.113.5"))
	assert.Equal(t, http.StatusNoContent, limitedRequest(handler, "203.0.113.6"))
}

func TestRateLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(1, 20*time.Millisecond)
	handler := limiter.Limit(okHandler())

	assert.Equal(t, http.StatusNoContent, limitedRequest(handler, "203.0.113.5"))
	assert.Equal(t, http.StatusTooManyRequests, limitedRequest(handler, "203.0.113.5"))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, http.StatusNoContent, limitedRequest(handler, "203.0.113.5"))
}

func TestRequestLoggerPreservesStatus(t *testing.T) {
	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusTeapot, "nope")
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
