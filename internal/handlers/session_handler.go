package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gymstack/gymstack-backend/internal/dto"
	"github.com/gymstack/gymstack-backend/internal/services"
	"github.com/gymstack/gymstack-backend/internal/tenant"
)

type SessionHandler struct {
	sessions *services.SessionService
}

func NewSessionHandler(sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create exchanges an external identity token for a session token. The
// resolver runs inside: invited rows are claimed here on first sign-in.
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req dto.SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.IdentityToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Identity token is required",
		})
	}

	token, user, err := h.sessions.Establish(req.IdentityToken)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized: identity could not be resolved",
		})
	}

	return c.JSON(dto.SessionResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	})
}

// Me returns the resolved actor for the current request.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	if actor == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}
	return c.JSON(dto.NewUserResponse(actor))
}
