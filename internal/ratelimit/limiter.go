// Package ratelimit implements a fixed-window request counter on Redis.
// The counter lives in the shared cache rather than a process-local map so
// every instance of the service enforces the same budget.
package ratelimit

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
}

func NewLimiter(client redis.Cmdable, limit int64, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window}
}

// Allow increments the caller's window counter and reports whether the
// request is within budget. The increment and the expiry travel in one
// pipelined round trip, and ExpireNX arms the TTL whenever the key has
// none, so a counter can never be left ticking without an expiry.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("quiz:ratelimit:%s", key)

	pipe := l.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= l.limit, nil
}

// Middleware enforces the limit per user id (falling back to client IP for
// unauthenticated calls). Redis being unreachable fails open with a log
// line: throttling is best-effort and must never take the quiz flow down.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-User-ID")
		if key == "" {
			key = c.ClientIP()
		}
		ok, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}
		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"code":  "RATE_LIMITED",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
