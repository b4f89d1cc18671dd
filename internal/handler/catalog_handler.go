package handler

import (
	"github.com/gofiber/fiber/v2"

	"msb-booking/internal/service/catalog"
)

type CatalogHandler struct {
	catalogService catalog.Service
}

func NewCatalogHandler(catalogService catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListBarbers(c *fiber.Ctx) error {
	barbers, err := h.catalogService.ListBarbers(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": barbers})
}

func (h *CatalogHandler) GetBarber(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "barber")
	if err != nil {
		return err
	}

	barber, err := h.catalogService.GetBarber(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(barber)
}

func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	services, err := h.catalogService.ListServices(c.UserContext())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"data": services})
}

func (h *CatalogHandler) GetService(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "service")
	if err != nil {
		return err
	}

	svc, err := h.catalogService.GetService(c.UserContext(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(svc)
}
