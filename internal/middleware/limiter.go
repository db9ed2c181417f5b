package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// Tier is one rate limit policy.
type Tier struct {
	Name  string
	Limit rate.Limit
	Burst int
}

var (
	// login, register, refresh, contact
	TierStrict  = Tier{Name: "strict", Limit: rate.Limit(2), Burst: 5}
	TierGeneral = Tier{Name: "general", Limit: rate.Limit(10), Burst: 20}
)

const (
	cleanupEvery = time.Minute
	idleAfter    = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter starts the idle cleanup loop, which stops with ctx.
func NewRateLimiter(ctx context.Context) *RateLimiter {
	l := &RateLimiter{visitors: map[string]*visitor{}, now: time.Now}
	go l.cleanupLoop(ctx)
	return l
}

func (l *RateLimiter) limiter(key string, t Tier) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.Limit, t.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

func (l *RateLimiter) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

// cleanup drops visitors idle for longer than idleAfter.
func (l *RateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > idleAfter {
			delete(l.visitors, key)
		}
	}
}

// Middleware rejects requests beyond the tier with 429.
func (l *RateLimiter) Middleware(t Tier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP() + ":" + t.Name
			if !l.limiter(key, t).Allow() {
				return c.JSON(http.StatusTooManyRequests, errorJSON("Too many requests"))
			}
			return next(c)
		}
	}
}
