package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"msb-booking/internal/domain"
	"msb-booking/internal/middleware"
	"msb-booking/internal/service/notification"
)

type NotificationHandler struct {
	notifService notification.Service
}

func NewNotificationHandler(notifService notification.Service) *NotificationHandler {
	return &NotificationHandler{notifService: notifService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	unreadOnly := c.Query("unread_only") == "true"

	result, err := h.notifService.List(c.UserContext(), unreadOnly, getPaginationParams(c))
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.notifService.GetUnreadCount(c.UserContext())
	if err != nil {
		return mapError(err)
	}

	return c.Status(fiber.StatusOK).JSON(domain.UnreadCount{Count: count})
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	state, err := h.notifService.Inbox(ctx)
	if err != nil {
		return mapError(err)
	}

	if err := state.MarkRead(ctx, id); err != nil {
		return mapError(err)
	}

	return c.JSON(domain.UnreadCount{Count: state.UnreadCount()})
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	state, err := h.notifService.Inbox(ctx)
	if err != nil {
		return mapError(err)
	}

	if err := state.MarkAllRead(ctx); err != nil {
		return mapError(err)
	}

	return c.JSON(domain.UnreadCount{Count: state.UnreadCount()})
}

// MarkSelectedAsRead replays the client's selection onto the inbox so the
// unread badge is recomputed and published once.
func (h *NotificationHandler) MarkSelectedAsRead(c *fiber.Ctx) error {
	var input domain.MarkSelectedInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if len(input.IDs) == 0 {
		return middleware.BadRequest("At least one notification must be selected")
	}

	ctx := c.UserContext()
	state, err := h.notifService.Inbox(ctx)
	if err != nil {
		return mapError(err)
	}

	seen := make(map[uuid.UUID]struct{}, len(input.IDs))
	for _, id := range input.IDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		state.ToggleSelection(id)
	}
	if err := state.MarkSelectedRead(ctx); err != nil {
		return mapError(err)
	}

	return c.JSON(domain.UnreadCount{Count: state.UnreadCount()})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id", "notification")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	state, err := h.notifService.Inbox(ctx)
	if err != nil {
		return mapError(err)
	}

	if err := state.Delete(ctx, id); err != nil {
		return mapError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
