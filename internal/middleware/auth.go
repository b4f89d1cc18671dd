package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/service/auth"
)

const UserContextKey = "user"

// AuthRequired verifies the bearer token and attaches the customer to both
// the fiber locals and the request's user context.
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return Unauthorized("Missing authorization header")
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return Unauthorized("Invalid authorization header format")
		}

		claims, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			return Unauthorized("Invalid or expired token")
		}

		customer, err := authService.GetCustomerByID(c.UserContext(), claims.UserID)
		if err != nil || customer == nil {
			return Unauthorized("User not found")
		}

		c.Locals(UserContextKey, customer)
		c.SetUserContext(identity.WithUser(c.UserContext(), identity.User{
			ID:    customer.ID,
			Email: customer.Email,
			Role:  customer.Role,
		}))

		return c.Next()
	}
}

func GetCurrentUser(c *fiber.Ctx) *domain.Customer {
	customer, ok := c.Locals(UserContextKey).(*domain.Customer)
	if !ok {
		return nil
	}
	return customer
}
