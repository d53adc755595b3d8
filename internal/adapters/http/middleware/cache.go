package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CacheControl sets a private max-age on successful GET responses
func CacheControl(maxAge time.Duration) fiber.Handler {
	value := "private, max-age=" + strconv.Itoa(int(maxAge.Seconds()))
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() == fiber.MethodGet && c.Response().StatusCode() == fiber.StatusOK {
			c.Set(fiber.HeaderCacheControl, value)
		}

		return err
	}
}

// MasterDataCache caches savings and loan type lookups for five minutes
func MasterDataCache() fiber.Handler {
	return CacheControl(5 * time.Minute)
}

// NoCacheHeaders sets no-cache headers. Balances and tokens must never be cached.
func NoCacheHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return c.Next()
	}
}
