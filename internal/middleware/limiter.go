package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"studentdeal-be/internal/apperr"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Rate limit tiers
const (
	// checkout and verification submission
	limitStrict = rate.Limit(2)
	burstStrict = 5

	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// trusted services presenting the internal key
	limitInternal = rate.Limit(100)
	burstInternal = 200
)

const (
	TierStrict   = "strict"
	TierGeneral  = "general"
	TierInternal = "internal"

	InternalAuthHeader = "X-Service-Auth"
)

var ErrRateLimited = apperr.New(apperr.KindRateLimited, "rate_limited", "too many requests")

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// strictRoutes are keyed by "METHOD path".
var strictRoutes = map[string]bool{
	http.MethodPost + " /api/orders":        true,
	http.MethodPost + " /api/verifications": true,
}

// RateLimiter keeps one token bucket per caller and tier.
type RateLimiter struct {
	internalKey string

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

func NewRateLimiter(internalKey string) *RateLimiter {
	return &RateLimiter{
		internalKey: internalKey,
		visitors:    make(map[string]*visitor),
		now:         time.Now,
	}
}

func (l *RateLimiter) get(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		l.visitors[key] = &visitor{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// Prune drops visitors idle for longer than maxIdle and returns how many
// were removed.
func (l *RateLimiter) Prune(maxIdle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > maxIdle {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

// Cleanup prunes idle visitors every interval until ctx is done.
func (l *RateLimiter) Cleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Prune(maxIdle)
		}
	}
}

func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware must run after Authenticate so users are keyed by id.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, burst, tier := l.resolveTier(c.Request)

		key := fmt.Sprintf("%s:%s", callerKey(c), tier)
		if !l.get(key, limit, burst).Allow() {
			abortRateLimited(c)
			return
		}
		c.Next()
	}
}

func (l *RateLimiter) resolveTier(r *http.Request) (rate.Limit, int, string) {
	if l.internalKey != "" && r.Header.Get(InternalAuthHeader) == l.internalKey {
		return limitInternal, burstInternal, TierInternal
	}
	if strictRoutes[r.Method+" "+r.URL.Path] {
		return limitStrict, burstStrict, TierStrict
	}
	return limitGeneral, burstGeneral, TierGeneral
}

// callerKey prefers the user id, then the guest session, then the client IP.
func callerKey(c *gin.Context) string {
	id := Caller(c)
	switch {
	case id.IsAuthenticated():
		return fmt.Sprintf("user:%d", id.UserID)
	case id.SessionID != "":
		return "session:" + id.SessionID
	default:
		return "ip:" + c.ClientIP()
	}
}

func abortRateLimited(c *gin.Context) {
	AbortWithError(c, ErrRateLimited)
}
