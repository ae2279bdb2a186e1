package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/auth"
)

// UserContextKey is the key used to store caller claims in the Fiber
// context.
const UserContextKey = "user"

// RequireAuth creates a middleware that resolves the Bearer token into
// caller claims through the auth module.
func RequireAuth(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, "authorization header is required")
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return respondError(c, fiber.StatusUnauthorized, "invalid authorization header format, use: Bearer <token>")
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			return respondError(c, fiber.StatusUnauthorized, "token is required")
		}

		claims, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return respondError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// currentClaims returns the caller claims stored by RequireAuth.
func currentClaims(c *fiber.Ctx) (*user.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*user.Claims)
	return claims, ok
}
