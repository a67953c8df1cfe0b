package serverutils

import (
	"fmt"
	"strconv"
	"time"

	"video-saas-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per user (or IP) in fixed windows stored in Redis.
// It lets traffic through when Redis is not configured or unreachable.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if rdb == nil || limit <= 0 || window <= 0 {
			return ctx.Next()
		}

		subject := ctx.IP()
		if userId, ok := ctx.Locals(userIdLocal).(string); ok && userId != "" {
			subject = userId
		}
		bucket := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("ratelimit:%s:%d", subject, bucket)

		count, err := rdb.Incr(ctx.UserContext(), key).Result()
		if err != nil {
			log.Warn("RATE_LIMIT", "Redis unavailable, skipping rate limit", map[string]interface{}{
				"error": err.Error(),
			})
			return ctx.Next()
		}
		if count == 1 {
			rdb.Expire(ctx.UserContext(), key, window)
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		ctx.Set("X-RateLimit-Limit", strconv.Itoa(limit))
		ctx.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			return ctx.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse(fiber.StatusTooManyRequests, "Too many requests"))
		}
		return ctx.Next()
	}
}
