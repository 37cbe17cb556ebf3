package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminAuthMiddleware validates the operator bearer token on /s/admin routes.
// The token comes from the environment at startup so a misconfigured deploy
// fails closed, not open.
func AdminAuthMiddleware(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if expectedToken == "" {
			log.Printf("🚫 [ADMIN_AUTH] ADMIN_TOKEN not configured, rejecting %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "admin access is not configured",
			})
		}

		authHeader := c.Get("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" || token != expectedToken {
			log.Printf("❌ [ADMIN_AUTH] Invalid admin token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid admin token",
			})
		}
		return c.Next()
	}
}
