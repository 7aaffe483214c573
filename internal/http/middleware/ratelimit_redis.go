package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"task_deadlines/internal/logger"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// KeyFunc picks the identifier a limit is counted against. An empty key
// skips limiting for the request.
type KeyFunc func(c *gin.Context) string

// ByIP counts requests per client IP.
func ByIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUser counts requests per authenticated user. It must run after JWT.
func ByUser(c *gin.Context) string {
	id, ok := Identity(c)
	if !ok {
		return ""
	}
	return "user:" + strconv.FormatInt(id.UserID, 10)
}

// RateLimiter is a fixed-window limiter over Redis INCR/EXPIRE. A nil client
// or a Redis error lets requests through: rate limiting protects capacity,
// it is not an authority check.
type RateLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisRateLimiter connects to addr. If addr is empty or the ping fails the
// limiter is returned disabled.
func NewRedisRateLimiter(addr, password string, db int, prefix string) *RateLimiter {
	rl := &RateLimiter{prefix: prefix}
	if addr == "" {
		return rl
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, rate limiting disabled", "addr", addr, "error", err)
		_ = client.Close()
		return rl
	}

	rl.client = client
	return rl
}

// Enabled reports whether a Redis client is attached.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.client != nil
}

func (rl *RateLimiter) Close() error {
	if !rl.Enabled() {
		return nil
	}
	return rl.client.Close()
}

// Limit allows maxRequests per window per key.
// key format: rl:<prefix>:<window_seconds>:<identifier>
func (rl *RateLimiter) Limit(maxRequests int, window time.Duration, keyFn KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Enabled() || maxRequests <= 0 {
			c.Next()
			return
		}

		ident := keyFn(c)
		if ident == "" {
			c.Next()
			return
		}

		key := "rl:" + rl.prefix + ":" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
		ctx := c.Request.Context()

		val, err := rl.client.Incr(ctx, key).Result()
		if err != nil {
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			rl.client.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
