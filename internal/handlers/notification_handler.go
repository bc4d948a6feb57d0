package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/dto"
	"github.com/gymstack/gymstack-backend/internal/services"
	"github.com/gymstack/gymstack-backend/internal/tenant"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	notes, err := h.notifications.List(actor.ID, c.QueryInt("limit"))
	if err != nil {
		return writeServiceError(c, err)
	}

	out := make([]dto.NotificationResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, dto.NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(out)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	noteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid notification id",
		})
	}

	if err := h.notifications.MarkRead(actor.ID, noteID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	if err := h.notifications.MarkAllRead(actor.ID); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "All notifications marked read"})
}
