package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nutricoach/backend/pkg/metrics"
)

// per-key limiter store (simple in-memory token bucket)
var limiterStore sync.Map // map[string]*rate.Limiter

func getLimiter(key string, rps float64, burst int) *rate.Limiter {
	if v, ok := limiterStore.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)
	actual, _ := limiterStore.LoadOrStore(key, lim)
	return actual.(*rate.Limiter)
}

// limiterKey prefers the authenticated subject when Auth already ran,
// otherwise the client IP.
func limiterKey(c *gin.Context) string {
	if claims := ClaimsFrom(c); claims != nil {
		return "sub:" + strconv.FormatInt(claims.UserID, 10)
	}
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

// RateLimit enforces a token-bucket limit per subject (or per IP for
// anonymous requests). rps is allowed events per second, burst the bucket
// size.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := getLimiter(limiterKey(c), rps, burst)
		if !lim.Allow() {
			c.Header("Retry-After", "1")
			metrics.RateLimitRejected.WithLabelValues("memory").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}
