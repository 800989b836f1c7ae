package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/farmlog/farmlog-api/internal/api/handler/v1/response"
	"github.com/farmlog/farmlog-api/internal/metrics"
)

const sweepInterval = 10 * time.Minute

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	lastSweep time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rps:       rate.Limit(rps),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) getLimiter(clientID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastSweep) > sweepInterval {
		// full buckets belong to idle clients
		for id, l := range rl.limiters {
			if l.TokensAt(now) >= float64(rl.burst) {
				delete(rl.limiters, id)
			}
		}
		rl.lastSweep = now
	}

	limiter, ok := rl.limiters[clientID]
	if !ok {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.limiters[clientID] = limiter
	}

	return limiter
}

// Limit rejects requests over the per-client budget with 429. A non-positive rate disables limiting.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if rl.rps <= 0 {
			ctx.Next()
			return
		}

		if !rl.getLimiter(ctx.ClientIP()).Allow() {
			metrics.HTTPRateLimited.Inc()
			ctx.Header("Retry-After", "1")
			response.RenderErr(ctx, response.ErrTooManyRequests())
			return
		}

		ctx.Next()
	}
}
