package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimitConfig defines configuration for login attempt limiting
type LoginRateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of attempts allowed in the window
	Limit int
}

// LoginRateLimiter throttles password attempts per client IP using Redis.
// With a single shared password, unthrottled guessing is the obvious attack.
type LoginRateLimiter struct {
	redis  *redis.Client
	config LoginRateLimitConfig
}

// NewLoginRateLimiter creates a limiter allowing 10 attempts per 15 minutes.
// A nil Redis client disables limiting entirely.
func NewLoginRateLimiter(redisClient *redis.Client) *LoginRateLimiter {
	return &LoginRateLimiter{
		redis: redisClient,
		config: LoginRateLimitConfig{
			Window: 15 * time.Minute,
			Limit:  10,
		},
	}
}

// Middleware returns a Gin middleware that enforces the attempt limit.
func (rl *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.redis == nil {
			c.Next()
			return
		}

		key := "rate_limit:login:" + c.ClientIP() + ":" +
			time.Now().Truncate(rl.config.Window).Format(time.RFC3339)

		pipe := rl.redis.Pipeline()
		incrCmd := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, rl.config.Window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// A broken limiter must not lock everyone out.
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		if int(incrCmd.Val()) > rl.config.Limit {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many login attempts, try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
