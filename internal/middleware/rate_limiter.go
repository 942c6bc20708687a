package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// windowEntry tracks request counts per IP within a fixed window.
type windowEntry struct {
	count     int
	windowEnd time.Time
}

// windowLimiter counts requests per client IP and rejects the ones over limit
// until the window rolls over.
type windowLimiter struct {
	name    string
	limit   int
	window  time.Duration
	message string

	mu      sync.Mutex
	entries map[string]*windowEntry
}

// newWindowLimiter purges expired entries in the background until ctx is done.
func newWindowLimiter(ctx context.Context, name string, limit int, window time.Duration, message string) *windowLimiter {
	l := &windowLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		message: message,
		entries: make(map[string]*windowEntry),
	}
	go l.purgeLoop(ctx, purgeInterval)
	return l
}

// allow counts one hit for ip and returns the end of its current window.
func (l *windowLimiter) allow(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &windowEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

func (l *windowLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, windowEnd := l.allow(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(l.message))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// purgeLoop drops expired entries so IPs that never return do not accumulate.
func (l *windowLimiter) purgeLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.purge(now)
		}
	}
}

func (l *windowLimiter) purge(now time.Time) {
	l.mu.Lock()
	purged := 0
	for ip, entry := range l.entries {
		if now.After(entry.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	remaining := len(l.entries)
	l.mu.Unlock()

	if purged > 0 {
		log.Debug().
			Str("limiter", l.name).
			Int("entries_purged", purged).
			Int("entries_remaining", remaining).
			Msg("rate limiter purged")
	}
}

// SignInRateLimiter limits sign-in attempts to 20 per minute per IP.
func SignInRateLimiter(ctx context.Context) gin.HandlerFunc {
	return newWindowLimiter(ctx, "sign_in", 20, time.Minute,
		"too many sign-in attempts, try again in a minute").handler()
}

// RateLimiter returns a general-purpose per-IP limiter.
func RateLimiter(ctx context.Context, limit int, window time.Duration) gin.HandlerFunc {
	return newWindowLimiter(ctx, "api", limit, window,
		"too many requests, try again shortly").handler()
}
