package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
)

// WindowCounter counts hits inside a fixed time window
type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit caps requests per client IP for one named bucket. A nil counter
// disables limiting so local setups work without Redis.
func RateLimit(counter WindowCounter, name string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", name, c.ClientIP())
		count, err := counter.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			// fail open
			GetLoggerFromContext(c).Error("Rate limit counter unavailable", err, map[string]interface{}{
				"bucket": name,
			})
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			GetLoggerFromContext(c).Warn("Rate limit exceeded", map[string]interface{}{
				"bucket": name,
				"count":  count,
			})
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			apperrors.TooManyRequests(c)
			c.Abort()
			return
		}

		c.Next()
	}
}
