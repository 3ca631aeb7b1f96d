package middleware

import (
	"fmt"
	"time"

	"studentdeal-be/internal/logger"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// luaSlidingWindow trims the window, counts it and records the request only
// when under the limit. Returns the new count, or -1 when limited.
// KEYS[1]=key ARGV: now, windowStart, windowSec, member, limit
const luaSlidingWindow = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, '0', windowStart)

local count = redis.call('ZCARD', key)
if count < tonumber(ARGV[5]) then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
else
  return -1
end
`

func RedisRateKey(scope, caller string) string {
	return fmt.Sprintf("studentdeal:rate_limit:%s:%s", scope, caller)
}

// RedisRateLimit is a sliding-window limit shared by every instance. Redis
// failures let the request through; the in-process limiter still applies.
func RedisRateLimit(rdb *rd.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	windowSec := int64(window.Seconds())
	if windowSec < 1 {
		windowSec = 1
	}

	return func(c *gin.Context) {
		key := RedisRateKey(scope, callerKey(c))

		now := time.Now()
		member := fmt.Sprintf("%d-%s", now.UnixNano(), logger.RequestIDFrom(c.Request.Context()))

		res, err := rdb.Eval(c.Request.Context(), luaSlidingWindow, []string{key},
			now.Unix(), now.Unix()-windowSec, windowSec, member, limit).Int()
		if err != nil {
			logger.FromCtx(c.Request.Context()).Warn("redis rate limit unavailable",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if res < 0 {
			abortRateLimited(c)
			return
		}
		c.Next()
	}
}
