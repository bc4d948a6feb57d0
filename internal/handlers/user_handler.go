package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/dto"
	"github.com/gymstack/gymstack-backend/internal/models"
	"github.com/gymstack/gymstack-backend/internal/services"
	"github.com/gymstack/gymstack-backend/internal/tenant"
)

type UserHandler struct {
	users    *services.UserService
	cascade  *services.CascadeService
	deletion *services.DeletionService
}

func NewUserHandler(users *services.UserService, cascade *services.CascadeService, deletion *services.DeletionService) *UserHandler {
	return &UserHandler{users: users, cascade: cascade, deletion: deletion}
}

func (h *UserHandler) Create(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.users.CreateUser(actor, services.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      models.Role(req.Role),
		GymID:     req.GymID,
		PlanID:    req.PlanID,
	})
	if err != nil {
		if errors.Is(err, services.ErrForbidden) || errors.Is(err, services.ErrEmailTaken) {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) Update(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	user, err := h.users.UpdateUser(actor, targetID, services.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(dto.NewUserResponse(user))
}

func (h *UserHandler) SetStatus(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.cascade.SetActiveStatus(actor, targetID, req.Active); err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Status updated"})
}

func (h *UserHandler) Delete(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	if err := h.deletion.DeleteUser(actor, targetID); err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User deleted"})
}

func (h *UserHandler) ResendInvite(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)
	targetID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	if err := h.users.ResendInvitation(actor, targetID); err != nil {
		if errors.Is(err, services.ErrAlreadyClaimed) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return writeServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Invitation sent"})
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	actor := tenant.GetActor(c)

	gymID := actor.GymID
	if raw := c.Query("gym_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid gym id",
			})
		}
		gymID = &parsed
	}
	if gymID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "gym_id is required",
		})
	}

	users, err := h.users.ListUsers(actor, *gymID)
	if err != nil {
		return writeServiceError(c, err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// writeServiceError maps service sentinels onto HTTP statuses.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrUserNotFound), errors.Is(err, services.ErrNoteNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
}
