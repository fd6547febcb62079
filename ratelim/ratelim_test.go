package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestLimitPerIP(t *testing.T) {
	rl := NewRateLimiter(5, 2)
	h := rl.Limit(func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNoContent)
	})

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/reservations", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h(rec, req, nil)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"), "same IP, different port")
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:5000"))
}

func TestSweepDropsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(5, 1)
	start := time.Now()
	rl.getLimiter("a", start)
	rl.getLimiter("b", start.Add(9*time.Minute))

	rl.sweep(start.Add(11 * time.Minute))
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}
