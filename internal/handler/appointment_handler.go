package handler

import (
	"github.com/gofiber/fiber/v2"

	"msb-booking/internal/domain"
	"msb-booking/internal/middleware"
	"msb-booking/internal/service/appointment"
	"msb-booking/internal/service/booking"
)

type AppointmentHandler struct {
	bookingService     booking.Service
	appointmentService appointment.Service
}

func NewAppointmentHandler(bookingService booking.Service, appointmentService appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{
		bookingService:     bookingService,
		appointmentService: appointmentService,
	}
}

func (h *AppointmentHandler) Book(c *fiber.Ctx) error {
	var input domain.CreateAppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	result, err := h.bookingService.Book(c.UserContext(), input)
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AppointmentHandler) ListMine(c *fiber.Ctx) error {
	appointments, err := h.appointmentService.ListMine(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": appointments})
}

// Cancel answers with the refreshed list so the client can redraw in one
// round trip.
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "appointment")
	if err != nil {
		return err
	}

	appointments, err := h.appointmentService.Cancel(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{
		"message": "Appointment cancelled",
		"data":    appointments,
	})
}

func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "appointment")
	if err != nil {
		return err
	}

	var input domain.UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	appt, err := h.appointmentService.UpdateStatus(c.UserContext(), id, input.Status)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(appt)
}
