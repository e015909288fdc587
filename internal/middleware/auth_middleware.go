package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/user/cryptotrack/internal/apperr"
	"github.com/user/cryptotrack/internal/auth"
)

// Locals keys set by Protected for downstream handlers.
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
)

// Protected verifies the Bearer token on each request and stores the
// authenticated user's id and username in the request locals.
func Protected(tokens *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return apperr.Unauthorized("Authorization header missing")
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return apperr.Unauthorized("Invalid authorization header")
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return apperr.Unauthorized("Invalid or expired token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)

		return c.Next()
	}
}
