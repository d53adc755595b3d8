package middleware

import (
	"errors"
	"strings"

	"nfc-cooperative/internal/config"
	"nfc-cooperative/internal/core/domain"
	"nfc-cooperative/internal/pkg/jwt"
	"nfc-cooperative/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// tokenFrom reads the access token from the cookie, then the Authorization header
func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func setClaims(c *fiber.Ctx, claims *jwt.Claims) {
	c.Locals("userID", claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("role", claims.Role)
	c.Locals("permissions", domain.Permission(claims.Permissions))
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := tokenFrom(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// RequirePermission allows the request only when the caller holds every bit of want
func RequirePermission(want domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		perms, ok := c.Locals("permissions").(domain.Permission)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !perms.Has(want) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// RequireAnyPermission allows the request when the caller holds at least one of the bits
func RequireAnyPermission(perms ...domain.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		held, ok := c.Locals("permissions").(domain.Permission)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		for _, p := range perms {
			if held.Has(p) {
				return c.Next()
			}
		}
		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows only holders of the maintain permission
func AdminOnly() fiber.Handler {
	return RequirePermission(domain.PermMaintain)
}

// OptionalAuth sets user info when a valid token is present but never rejects
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if accessToken := tokenFrom(c); accessToken != "" {
			if claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret); err == nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}
