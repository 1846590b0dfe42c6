package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alchemist-backend/internal/server"
)

// Middleware returns a Fiber middleware that validates bearer JWT tokens
// and sets the UserContext on the request. An empty secret disables auth
// entirely (the middleware passes every request through).
func Middleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		header := c.Get("Authorization")
		if header == "" {
			return server.UnauthorizedError("Missing auth token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return server.UnauthorizedError("Invalid auth header format")
		}

		claims, err := ParseAccessToken(parts[1], secret)
		if err != nil {
			return server.UnauthorizedError("Invalid or expired token")
		}

		c.Locals("user", &UserContext{
			ID:    claims.Subject,
			Roles: claims.Roles,
		})

		return c.Next()
	}
}

// GetUser extracts the UserContext from a Fiber context.
func GetUser(c *fiber.Ctx) *UserContext {
	user, _ := c.Locals("user").(*UserContext)
	return user
}
