package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig holds rate limiting settings
type RateLimitConfig struct {
	Max        int           // max requests per IP per window; 0 disables limiting
	Expiration time.Duration // window length
	Storage    fiber.Storage // nil keeps counters in the limiter's own memory
}

// unlimitedPaths are never counted
var unlimitedPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// GlobalRateLimiter creates a per-IP rate limiter for every request
func GlobalRateLimiter(config RateLimitConfig) fiber.Handler {
	if config.Max <= 0 {
		log.Println("⚠️  [RATE-LIMIT] Rate limiting disabled")
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return limiter.New(limiter.Config{
		Next: func(c *fiber.Ctx) bool {
			return unlimitedPaths[c.Path()]
		},
		Max:        config.Max,
		Expiration: config.Expiration,
		Storage:    config.Storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "global:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			log.Printf("🚫 [RATE-LIMIT] Global limit reached for IP: %s", c.IP())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"detail":      "Too many requests. Please slow down.",
				"retry_after": int(config.Expiration.Seconds()),
			})
		},
	})
}
