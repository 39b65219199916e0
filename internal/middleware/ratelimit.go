package middleware

import (
	"net/http"
	"sync"

	"infoshare/internal/logger"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. Idle clients fall out of the LRU.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	rps      rate.Limit
	burst    int
}

func NewRateLimiter(rps float64, burst, size int) (*RateLimiter, error) {
	if size <= 0 {
		size = 10000
	}
	if burst <= 0 {
		burst = 1
	}
	cache, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{limiters: cache, rps: rate.Limit(rps), burst: burst}, nil
}

func (l *RateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters.Get(key); ok {
		return lim
	}
	lim := rate.NewLimiter(l.rps, l.burst)
	l.limiters.Add(key, lim)
	return lim
}

// Allow reports whether key may make another request now.
func (l *RateLimiter) Allow(key string) bool {
	return l.get(key).Allow()
}

// Middleware answers 429 once a client exceeds its budget. A nil limiter lets everything through.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || l.rps <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !l.Allow(ip) {
			logger.Warn("rate limit exceeded", logger.String("ip", ip), logger.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests, slow down"})
			return
		}
		c.Next()
	}
}
