package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/consigliere/metrics"
	"github.com/cppla/consigliere/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
	mu      sync.Mutex
}

// ipLimiters hands out one token bucket per client IP and forgets idle ones.
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rateLimiter
	limit    rate.Limit
	burst    int
}

// RateLimitMiddleware applies a simple IP based rate limiter using a token bucket.
// Each IP may spend perMinute requests per minute with a burst of half that.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	perMinute = max(perMinute, 1)
	pool := &ipLimiters{
		limiters: map[string]*rateLimiter{},
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
	}

	return func(ctx *gin.Context) {
		limiter := pool.get(ctx.ClientIP())

		limiter.mu.Lock()
		allowed := limiter.limiter.Allow()
		limiter.mu.Unlock()

		if !allowed {
			metrics.RateLimitDroppedTotal.Inc()
			utils.Error(ctx, 429, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

func (p *ipLimiters) get(key string) *rateLimiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cleanupExpiredLocked()

	if limiter, ok := p.limiters[key]; ok {
		limiter.expires = time.Now().Add(5 * time.Minute)
		return limiter
	}

	limiter := &rateLimiter{
		limiter: rate.NewLimiter(p.limit, p.burst),
		expires: time.Now().Add(5 * time.Minute),
	}
	p.limiters[key] = limiter
	return limiter
}

func (p *ipLimiters) cleanupExpiredLocked() {
	now := time.Now()
	for key, limiter := range p.limiters {
		if now.After(limiter.expires) {
			delete(p.limiters, key)
		}
	}
}
