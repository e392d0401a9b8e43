package http

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"github.com/uav-store/backend/internal/config"
	apperrors "github.com/uav-store/backend/pkg/util"
)

const limiterCleanupEvery = 5 * time.Minute

// ipRateLimiter hands out one token bucket per client IP.
type ipRateLimiter struct {
	limiters    sync.Map // map[string]*rate.Limiter
	rate        rate.Limit
	burst       int
	mu          sync.Mutex
	lastCleanup time.Time
}

func newIPRateLimiter(requests int, window time.Duration, burst int) *ipRateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if burst <= 0 {
		burst = requests
	}
	return &ipRateLimiter{
		rate:        rate.Limit(float64(requests) / window.Seconds()),
		burst:       burst,
		lastCleanup: time.Now(),
	}
}

func (rl *ipRateLimiter) get(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose buckets have refilled, i.e. idle clients.
func (rl *ipRateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if time.Since(rl.lastCleanup) < limiterCleanupEvery {
		return
	}
	rl.lastCleanup = time.Now()
	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// AuthRateLimit throttles credential endpoints per client IP. A non-positive
// request budget disables it.
func AuthRateLimit(cfg config.RateLimitConfig) fiber.Handler {
	if cfg.AuthRequests <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	window := cfg.AuthWindow()
	rl := newIPRateLimiter(cfg.AuthRequests, window, cfg.AuthBurst)

	return func(c *fiber.Ctx) error {
		limiter := rl.get(c.IP())
		if limiter.Allow() {
			return c.Next()
		}
		reservation := limiter.Reserve()
		delay := reservation.Delay()
		reservation.Cancel()

		retryAfter := max(int(delay.Seconds()), 1)
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		c.Set("X-RateLimit-Limit", strconv.Itoa(cfg.AuthRequests))
		c.Set("X-RateLimit-Window", window.String())
		return apperrors.NewTooManyRequests("Too many requests from this IP, please try again later")
	}
}
