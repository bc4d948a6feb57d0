package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/models"
)

const actorKey = "actor"

// SetActor stores the resolved directory record for the request. Every
// service call takes the actor explicitly from here; nothing re-derives the
// caller's identity mid-operation.
func SetActor(c *fiber.Ctx, user *models.User) {
	c.Locals(actorKey, user)
}

// GetActor returns the directory record resolved for this request, or nil.
func GetActor(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(actorKey).(*models.User); ok {
		return user
	}
	return nil
}

// GetUserID extracts the user UUID from session JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}
