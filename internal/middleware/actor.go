package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gymstack/gymstack-backend/internal/dto"
	"github.com/gymstack/gymstack-backend/internal/models"
	"github.com/gymstack/gymstack-backend/internal/tenant"
	"gorm.io/gorm"
)

// ActorLoader fetches the caller's directory record once per request, from
// the session token's subject, and memoizes it in context locals. Handlers
// and services take the actor from there as an explicit parameter.
func ActorLoader(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := tenant.GetUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var actor models.User
		if err := db.First(&actor, "id = ?", userID).Error; err != nil {
			// The row may have been deleted since the session was issued.
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: account no longer exists",
			})
		}
		if !actor.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Account is deactivated",
			})
		}

		tenant.SetActor(c, &actor)
		return c.Next()
	}
}

// StaffRequired allows only superusers and admins through.
func StaffRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := tenant.GetActor(c)
		if actor == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if actor.Role != models.RoleSuperuser && actor.Role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}
		return c.Next()
	}
}
