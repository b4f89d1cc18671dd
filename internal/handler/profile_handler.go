package handler

import (
	"github.com/gofiber/fiber/v2"

	"msb-booking/internal/domain"
	"msb-booking/internal/middleware"
	"msb-booking/internal/service/profile"
)

type ProfileHandler struct {
	profileService profile.Service
}

func NewProfileHandler(profileService profile.Service) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	customer, err := h.profileService.Get(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(customer)
}

func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var input domain.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	customer, err := h.profileService.Update(c.UserContext(), input)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(customer)
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("File is required")
	}

	src, err := file.Open()
	if err != nil {
		return middleware.BadRequest("Failed to read file")
	}
	defer src.Close()

	customer, err := h.profileService.UploadAvatar(c.UserContext(), file.Size, file.Header.Get("Content-Type"), src)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(customer)
}
