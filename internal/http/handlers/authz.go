package handlers

import (
	"golang.org/x/crypto/bcrypt"

	applog "devicecover/internal/log"

	"github.com/gofiber/fiber/v2"
)

const AdminTokenHeader = "X-Admin-Token"

// RequireAdmin checks the admin token header against a bcrypt hash. With no
// hash configured the admin surface does not exist.
func RequireAdmin(tokenHash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenHash == "" {
			return fail(c, fiber.StatusNotFound, "not found")
		}
		tok := c.Get(AdminTokenHeader)
		if tok == "" {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "missing token"})
			return fail(c, fiber.StatusUnauthorized, "admin token required")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(tok)); err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": "bad token"})
			return fail(c, fiber.StatusForbidden, "access denied")
		}
		c.Locals("admin", true)
		return c.Next()
	}
}
