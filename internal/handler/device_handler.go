package handler

import (
	"github.com/gofiber/fiber/v2"

	"msb-booking/internal/middleware"
	"msb-booking/internal/service/delivery"
)

// DeviceHandler mirrors the app's lifecycle: start on login or launch,
// stop on logout.
type DeviceHandler struct {
	deliveryService delivery.Service
}

func NewDeviceHandler(deliveryService delivery.Service) *DeviceHandler {
	return &DeviceHandler{deliveryService: deliveryService}
}

type startInput struct {
	PushToken string `json:"push_token"`
}

type testPushInput struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (h *DeviceHandler) Start(c *fiber.Ctx) error {
	var input startInput
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return middleware.BadRequest("Invalid request body")
		}
	}

	h.deliveryService.Start(c.UserContext(), input.PushToken)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DeviceHandler) Stop(c *fiber.Ctx) error {
	h.deliveryService.Stop(c.UserContext())
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DeviceHandler) TestPush(c *fiber.Ctx) error {
	var input testPushInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Title == "" {
		input.Title = "MSB Barbershop"
	}
	if input.Body == "" {
		input.Body = "Notifications are working."
	}

	result, err := h.deliveryService.SendPushNotification(c.UserContext(), input.Title, input.Body, input.Data)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(result)
}
