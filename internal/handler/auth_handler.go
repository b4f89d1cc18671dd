package handler

import (
	"github.com/gofiber/fiber/v2"

	"msb-booking/internal/domain"
	"msb-booking/internal/middleware"
	"msb-booking/internal/service/auth"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type emailInput struct {
	Email string `json:"email" validate:"required,email"`
}

type refreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func tokenResponse(customer *domain.Customer, tokens *domain.TokenPair) fiber.Map {
	resp := fiber.Map{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_in":    tokens.ExpiresIn,
	}
	if customer != nil {
		resp["user"] = customer
	}
	return resp
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input domain.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Email == "" || len(input.Password) < 8 || len(input.FullName) < 2 {
		return middleware.UnprocessableEntity("Email, full name and a password of at least 8 characters are required")
	}

	customer, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    customer,
		"message": "Registration successful. Please check your email for the verification code.",
	})
}

func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var input domain.VerifyOTPInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	customer, tokens, err := h.authService.VerifyEmail(c.UserContext(), input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse(customer, tokens))
}

func (h *AuthHandler) ResendVerificationEmail(c *fiber.Ctx) error {
	var input emailInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.authService.ResendVerificationEmail(c.UserContext(), input.Email); err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If the email exists and is not verified, a new code has been sent",
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	customer, tokens, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse(customer, tokens))
}

func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var input refreshInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	tokens, err := h.authService.RefreshToken(c.UserContext(), input.RefreshToken)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(tokenResponse(nil, tokens))
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var input refreshInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.authService.Logout(c.UserContext(), input.RefreshToken); err != nil {
		return mapError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var input emailInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if err := h.authService.RequestPasswordReset(c.UserContext(), input.Email); err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "If the email exists, a reset code has been sent",
	})
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var input domain.ResetPasswordInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if len(input.NewPassword) < 8 {
		return middleware.UnprocessableEntity("Password must be at least 8 characters")
	}

	if err := h.authService.ResetPassword(c.UserContext(), input); err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Password has been reset successfully",
	})
}
