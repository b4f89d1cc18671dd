package middleware

import (
	"github.com/gofiber/fiber/v2"

	"msb-booking/internal/domain"
)

func RequireRole(requiredRole domain.CustomerRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		customer := GetCurrentUser(c)
		if customer == nil {
			return Unauthorized("User not found")
		}

		if !customer.HasRole(string(requiredRole)) {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}
