package http

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/paygate/credentials/internal/httputil"
)

// RateLimiterConfig controls per-credential request rate limiting.
type RateLimiterConfig struct {
	// DefaultRequestsPerSec applies when the credential carries no rate limit.
	DefaultRequestsPerSec float64
	// Burst is the token bucket burst size.
	Burst int
	// MaxLimiters bounds the number of tracked credentials.
	MaxLimiters int
}

// rateLimiterPool holds one token bucket per credential identity. The pool is
// bounded; when full, least recently created entries are not evicted but new
// identities fall back to a shared limiter, keeping memory use predictable
// under credential churn.
type rateLimiterPool struct {
	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
	shared   *rate.Limiter
	config   RateLimiterConfig
}

func newRateLimiterPool(config RateLimiterConfig) *rateLimiterPool {
	return &rateLimiterPool{
		limiters: make(map[uuid.UUID]*rate.Limiter),
		shared:   rate.NewLimiter(rate.Limit(config.DefaultRequestsPerSec), config.Burst),
		config:   config,
	}
}

// limiterFor returns the token bucket for a credential, creating it on first
// use with the credential's own limit.
func (p *rateLimiterPool) limiterFor(credentialID uuid.UUID, requestsPerSec float64) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, ok := p.limiters[credentialID]; ok {
		return limiter
	}
	if len(p.limiters) >= p.config.MaxLimiters {
		return p.shared
	}

	if requestsPerSec <= 0 {
		requestsPerSec = p.config.DefaultRequestsPerSec
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSec), p.config.Burst)
	p.limiters[credentialID] = limiter
	return limiter
}

// RateLimitMiddleware throttles authenticated requests per credential using
// the credential's own RateLimit as requests-per-second. It must run after
// AuthMiddleware. The admin bootstrap principal (nil credential id) shares a
// single bucket.
func RateLimitMiddleware(config RateLimiterConfig) gin.HandlerFunc {
	pool := newRateLimiterPool(config)

	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.Next()
			return
		}

		limiter := pool.limiterFor(principal.CredentialID, float64(principal.RateLimit))
		if !limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limited",
				Message: "Request rate limit exceeded, retry later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
