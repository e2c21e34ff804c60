package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// window counts requests from one client IP until end.
type window struct {
	count int
	end   time.Time
}

// RateLimiter is a fixed-window per-IP limiter. Expired windows are purged
// opportunistically every purgeEvery requests.
type RateLimiter struct {
	limit   int
	period  time.Duration
	mu      sync.Mutex
	clients map[string]*window
	seen    int
	now     func() time.Time
}

const purgeEvery = 1000

func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{limit: limit, period: period, clients: make(map[string]*window), now: time.Now}
}

// Allow records a request from ip and reports whether it is within the
// limit, plus the time the current window resets.
func (l *RateLimiter) Allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.seen++
	if l.seen%purgeEvery == 0 {
		l.purge(now)
	}

	w, ok := l.clients[ip]
	if !ok || now.After(w.end) {
		w = &window{end: now.Add(l.period)}
		l.clients[ip] = w
	}
	w.count++
	return w.count <= l.limit, w.end
}

func (l *RateLimiter) purge(now time.Time) {
	purged := 0
	for ip, w := range l.clients {
		if now.After(w.end) {
			delete(l.clients, ip)
			purged++
		}
	}
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.clients)).Msg("rate limiter purged")
	}
}

// Middleware rejects requests over the limit with 429. A non-positive limit
// disables limiting.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit <= 0 {
			c.Next()
			return
		}
		ok, reset := l.Allow(c.ClientIP())
		if !ok {
			secs := int(time.Until(reset).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}
