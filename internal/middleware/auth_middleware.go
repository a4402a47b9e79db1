package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jwtPkg "github.com/sefazor/ticketgate-backend/pkg/jwt"
)

func AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid authorization header format",
			})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtPkg.ValidateToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token",
			})
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid user ID in token",
			})
		}

		userEmail, ok := claims["email"].(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid email in token",
			})
		}

		c.Locals("userID", uint(userIDFloat))
		c.Locals("userEmail", userEmail)

		return c.Next()
	}
}

// OptionalAuthMiddleware populates the user locals when a valid token is
// present but lets anonymous requests through. Used on the public
// registration route, where a logged-in user gets linked to their
// registration.
func OptionalAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Next()
		}

		claims, err := jwtPkg.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return c.Next()
		}

		if userIDFloat, ok := claims["user_id"].(float64); ok {
			c.Locals("userID", uint(userIDFloat))
		}
		if userEmail, ok := claims["email"].(string); ok {
			c.Locals("userEmail", userEmail)
		}

		return c.Next()
	}
}
