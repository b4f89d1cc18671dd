package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"msb-booking/internal/domain"
	"msb-booking/internal/identity"
	"msb-booking/internal/middleware"
	"msb-booking/internal/service/auth"
)

type fakeAuth struct {
	auth.Service
	customer *domain.Customer
}

func (f *fakeAuth) ValidateAccessToken(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: f.customer.ID, Email: f.customer.Email, Role: f.customer.Role}, nil
}

func (f *fakeAuth) GetCustomerByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	if id != f.customer.ID {
		return nil, auth.ErrUserNotFound
	}
	return f.customer, nil
}

func newApp(customer *domain.Customer, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	chain := append([]fiber.Handler{middleware.AuthRequired(&fakeAuth{customer: customer})}, handlers...)
	app.Get("/me", chain...)
	return app
}

func decodeError(t *testing.T, body []byte) middleware.ErrorResponse {
	var out middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &out))
	return out
}

func TestAuthRequired_AttachesIdentity(t *testing.T) {
	customer := &domain.Customer{ID: uuid.New(), Email: "ana@msb.test", Role: "customer"}
	app := newApp(customer, func(c *fiber.Ctx) error {
		u, err := identity.Require(c.UserContext())
		if err != nil {
			return err
		}
		return c.SendString(u.ID.String())
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRequired_RejectsMissingOrBadToken(t *testing.T) {
	app := newApp(&domain.Customer{ID: uuid.New()}, func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, header := range []string{"", "Token good", "Bearer bad"} {
		req := httptest.NewRequest("GET", "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, header)
	}
}

func TestRequireRole(t *testing.T) {
	customer := &domain.Customer{ID: uuid.New(), Role: "customer"}
	app := newApp(customer, middleware.RequireRole(domain.RoleStaff), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	customer.Role = "admin"
	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(zap.NewNop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("pq: connection refused") })
	app.Get("/conflict", func(c *fiber.Ctx) error { return middleware.Conflict("taken") })

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := decodeError(t, body)
	assert.Equal(t, "INTERNAL_ERROR", out.Code)
	assert.NotContains(t, out.Message, "pq")
	assert.Len(t, out.TraceID, 8)

	resp, err = app.Test(httptest.NewRequest("GET", "/conflict", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
