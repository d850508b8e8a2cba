package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestVisitorPoolBurst(t *testing.T) {
	pool := newVisitorPool(time.Second, 100)
	limiter := pool.limiter("192.0.2.1")

	// The general pool allows a burst of 100 immediate requests
	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow(), "request %d should pass", i)
	}
	assert.False(t, limiter.Allow(), "request 101 should be throttled")
}

func TestVisitorPoolIsPerIP(t *testing.T) {
	pool := newVisitorPool(10*time.Second, 1)

	assert.True(t, pool.limiter("192.0.2.1").Allow())
	assert.False(t, pool.limiter("192.0.2.1").Allow(), "same address shares a bucket")
	assert.True(t, pool.limiter("192.0.2.2").Allow(), "a new address gets its own bucket")
}

func TestAuthVisitorsBurst(t *testing.T) {
	pool := newVisitorPool(10*time.Second, 10)
	limiter := pool.limiter("192.0.2.1")

	// The auth pool is much stricter: a burst of 10
	for i := 0; i < 10; i++ {
		assert.True(t, limiter.Allow(), "attempt %d should pass", i)
	}
	assert.False(t, limiter.Allow(), "attempt 11 should be throttled")
}

func TestLoginRateLimitMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/login", LoginRateLimitMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// A dedicated client address so other tests do not share the bucket
	var lastCode int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "192.0.2.77:4321"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		lastCode = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
