package middleware

import (
	"context"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"nexus_pix/pkg"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map // map[string]*ipLimiter
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{rps: rate.Limit(rps), burst: burst, now: time.Now}
}

func (l *IPRateLimiter) Allow(ip string) bool {
	v, ok := l.limiters.Load(ip)
	if !ok {
		v, _ = l.limiters.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(l.rps, l.burst)})
	}
	il := v.(*ipLimiter)
	il.lastSeen.Store(l.now().UnixNano())
	return il.limiter.Allow()
}

// Middleware rejects requests over the limit with 429.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			log.Printf("[pix][ratelimit] rejected ip=%s path=%s", ip, c.FullPath())
			appErr := pkg.NewDomainErrorSimple("RATE_LIMITED", "Too many requests", http.StatusTooManyRequests)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToHTTPError())
			return
		}
		c.Next()
	}
}

// Sweep drops limiters idle for longer than maxIdle.
func (l *IPRateLimiter) Sweep(maxIdle time.Duration) int {
	cutoff := l.now().Add(-maxIdle).UnixNano()
	removed := 0
	l.limiters.Range(func(key, val any) bool {
		if val.(*ipLimiter).lastSeen.Load() < cutoff {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (l *IPRateLimiter) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := l.Sweep(maxIdle); n > 0 {
				log.Printf("[pix][ratelimit] swept idle limiters count=%d", n)
			}
		}
	}
}
