package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/eduquest/config"
	"github.com/cppla/eduquest/metrics"
	"github.com/cppla/eduquest/utils"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	*rate.Limiter
	lastSeen time.Time
}

// scopeLimiters holds one token bucket per client inside a single scope.
type scopeLimiters struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	interval time.Duration
	burst    int
	swept    time.Time
}

func newScopeLimiters(perMinute int) *scopeLimiters {
	perMinute = max(perMinute, 1)
	return &scopeLimiters{
		clients:  map[string]*clientLimiter{},
		interval: time.Minute / time.Duration(perMinute),
		burst:    max(perMinute/2, 1),
	}
}

func (s *scopeLimiters) allow(client string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.swept) > limiterIdleTTL {
		for k, c := range s.clients {
			if now.Sub(c.lastSeen) > limiterIdleTTL {
				delete(s.clients, k)
			}
		}
		s.swept = now
	}

	c, ok := s.clients[client]
	if !ok {
		c = &clientLimiter{Limiter: rate.NewLimiter(rate.Every(s.interval), s.burst)}
		s.clients[client] = c
	}
	c.lastSeen = now
	return c.AllowN(now, 1)
}

// retryAfter is the refill time of one token, in whole seconds.
func (s *scopeLimiters) retryAfter() string {
	secs := math.Ceil(s.interval.Seconds())
	return strconv.Itoa(max(int(secs), 1))
}

// RateLimitMiddleware applies a token bucket per client and limiter scope,
// so the auth group and the authenticated API are budgeted separately.
// Authenticated callers are keyed by user id, everyone else by IP.
func RateLimitMiddleware(scope string) gin.HandlerFunc {
	limiters := newScopeLimiters(config.Get().RateLimitPerMinute)

	return func(ctx *gin.Context) {
		client := "ip:" + ctx.ClientIP()
		if uid := ctx.GetString(ContextUserIDKey); uid != "" {
			client = "u:" + uid
		}

		if !limiters.allow(client, time.Now()) {
			metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
			ctx.Header("Retry-After", limiters.retryAfter())
			utils.Error(ctx, http.StatusTooManyRequests, 42901, "Too many requests, please try again later")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
