package serverutils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware enforces a fixed-window limit backed by Redis, so
// the count is shared across instances. Authenticated requests are keyed
// by user id, anonymous ones by client IP. When Redis is down the
// request is allowed through rather than failing the whole API.
func RateLimitMiddleware(client *redis.Client, limit int, window time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if client == nil || limit <= 0 {
			return ctx.Next()
		}

		principal := ctx.IP()
		if user := CurrentUser(ctx); user != nil {
			principal = user.Id.String()
		}

		now := time.Now()
		windowStart := now.Unix() / int64(window.Seconds())
		key := fmt.Sprintf("ratelimit:%s:%d", principal, windowStart)

		count, err := client.Incr(ctx.Context(), key).Result()
		if err != nil {
			return ctx.Next()
		}
		if count == 1 {
			client.Expire(ctx.Context(), key, window)
		}

		if count > int64(limit) {
			retryAfter := (windowStart+1)*int64(window.Seconds()) - now.Unix()
			if retryAfter < 1 {
				retryAfter = 1
			}
			ctx.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
			return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusTooManyRequests,
				"message": "rate limit exceeded, slow down",
				"data":    fiber.Map{"retry_after": retryAfter},
			})
		}

		return ctx.Next()
	}
}
