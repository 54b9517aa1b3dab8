package middleware

import (
	"time"

	"github.com/fadilmartias/careerhub/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter counts requests per caller in fixed windows. scope keeps
// separate limiters apart when they share storage. A nil storage keeps
// counters in process memory.
func RateLimiter(scope string, max int, expiration time.Duration, storage fiber.Storage) fiber.Handler {
	if max == 0 {
		max = 50
	}
	if expiration == 0 {
		expiration = 1 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   expiration,
		Storage:      storage,
		KeyGenerator: func(c *fiber.Ctx) string { return scope + ":" + rateLimitKey(c) },
		LimitReached: func(c *fiber.Ctx) error {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusTooManyRequests,
				Message: "too many requests",
			})
		},
		LimiterMiddleware: limiter.FixedWindow{},
	})
}

func rateLimitKey(c *fiber.Ctx) string {
	if u := CurrentUser(c); u != nil {
		return "user:" + u.ID.String()
	}
	return "ip:" + c.IP()
}
