package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/models"
)

// Action is a mutating operation on a directory record.
type Action string

const (
	ActionCreate       Action = "create"
	ActionUpdate       Action = "update"
	ActionSetStatus    Action = "set_status"
	ActionDelete       Action = "delete"
	ActionResendInvite Action = "resend_invite"
)

func (a Action) valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionSetStatus, ActionDelete, ActionResendInvite:
		return true
	}
	return false
}

// Authorize decides whether actor may perform action on a record of
// targetRole. Every mutating operation calls this before touching storage.
// Anything ambiguous (nil actor, unknown action or role) denies.
//
// Rules: superusers and admins manage trainers and members; only superusers
// manage admins; superuser records are provisioned out of band and are never
// a valid target here.
func Authorize(actor *models.User, action Action, targetRole models.Role) error {
	if actor == nil {
		return fmt.Errorf("%w: no authenticated actor", ErrForbidden)
	}
	if !actor.IsActive {
		return fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}
	if !action.valid() {
		return fmt.Errorf("%w: unknown action %q", ErrForbidden, string(action))
	}

	switch targetRole {
	case models.RoleSuperuser:
		return fmt.Errorf("%w: superuser accounts cannot be managed through this path", ErrForbidden)
	case models.RoleAdmin:
		if actor.Role != models.RoleSuperuser {
			return fmt.Errorf("%w: only a superuser may manage admin accounts", ErrForbidden)
		}
	case models.RoleTrainer, models.RoleMember:
		if actor.Role != models.RoleSuperuser && actor.Role != models.RoleAdmin {
			return fmt.Errorf("%w: only a superuser or admin may manage %s accounts", ErrForbidden, targetRole)
		}
	default:
		return fmt.Errorf("%w: unknown role %q", ErrForbidden, string(targetRole))
	}

	return nil
}

// authorizeGym enforces the tenant boundary on mutations: superusers operate
// across gyms, admins only inside their own. Mirrors the ListUsers read-side
// restriction.
func authorizeGym(actor *models.User, targetGym *uuid.UUID) error {
	if actor == nil || actor.Role != models.RoleAdmin {
		return nil
	}
	if actor.GymID == nil || targetGym == nil || *actor.GymID != *targetGym {
		return fmt.Errorf("%w: admins may only manage accounts in their own gym", ErrForbidden)
	}
	return nil
}
