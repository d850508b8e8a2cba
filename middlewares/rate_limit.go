package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitorPool hands out one token bucket per client IP. Buckets are
// created lazily on first sight and refill at the pool's interval.
type visitorPool struct {
	mu       sync.Mutex
	buckets  map[string]*rate.Limiter
	interval time.Duration
	burst    int
}

func newVisitorPool(interval time.Duration, burst int) *visitorPool {
	return &visitorPool{
		buckets:  make(map[string]*rate.Limiter),
		interval: interval,
		burst:    burst,
	}
}

func (p *visitorPool) limiter(ip string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	l, ok := p.buckets[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(p.interval), p.burst)
		p.buckets[ip] = l
	}
	return l
}

var (
	// Browsing gets a generous bucket; credentials get a tight one so
	// password guessing stalls after a handful of attempts.
	apiVisitors  = newVisitorPool(time.Second, 100)
	authVisitors = newVisitorPool(10*time.Second, 10)
)

func throttle(pool *visitorPool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !pool.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": message,
			})
			return
		}
		c.Next()
	}
}

// RateLimitMiddleware applies the per-IP limit shared by all routes.
func RateLimitMiddleware() gin.HandlerFunc {
	return throttle(apiVisitors, "Too many requests. Please slow down.")
}

// LoginRateLimitMiddleware guards login and password-reset endpoints.
func LoginRateLimitMiddleware() gin.HandlerFunc {
	return throttle(authVisitors, "Too many authentication attempts. Please wait and try again.")
}
