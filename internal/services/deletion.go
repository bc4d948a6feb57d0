package services

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/identity"
	"github.com/gymstack/gymstack-backend/internal/models"
	"gorm.io/gorm"
)

// DeletionService removes a directory record while preserving history:
// every table that merely references the person as author or actor keeps its
// rows with the reference nulled; only the person's own data goes with them.
type DeletionService struct {
	db  *gorm.DB
	idp identity.Provider
}

func NewDeletionService(db *gorm.DB, idp identity.Provider) *DeletionService {
	return &DeletionService{db: db, idp: idp}
}

// actorReferences lists every dependent table whose rows are historical
// records authored or acted on by a user. These are unlinked, never deleted.
var actorReferences = []struct {
	model  interface{}
	column string
}{
	{&models.Transaction{}, "related_user"},
	{&models.WorkoutPlan{}, "created_by"},
	{&models.DietPlan{}, "created_by"},
	{&models.Announcement{}, "posted_by"},
	{&models.PlanAssignment{}, "assigned_by"},
	{&models.Attendance{}, "marked_by"},
	{&models.ProgressLog{}, "logged_by"},
}

// DeleteUser hard-deletes a directory row in one transaction: unlink all
// actor references first, then remove the row. Subject-owned rows (profile,
// memberships, assignments, attendance where the user is the member) are
// expected to go with it via the database cascade. The external identity is
// removed afterwards, only if one was actually claimed; a provider failure
// is logged and never undoes the committed directory deletion.
func (s *DeletionService) DeleteUser(actor *models.User, targetID uuid.UUID) error {
	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := Authorize(actor, ActionDelete, target.Role); err != nil {
		return err
	}
	if err := authorizeGym(actor, target.GymID); err != nil {
		return err
	}

	// Claim state must be read before the row is gone.
	var claimedSubject string
	if target.IdentityState == models.IdentityClaimed && target.ExternalIdentity != nil {
		claimedSubject = *target.ExternalIdentity
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, ref := range actorReferences {
			if err := tx.Model(ref.model).
				Where(ref.column+" = ?", target.ID).
				Update(ref.column, nil).Error; err != nil {
				return fmt.Errorf("failed to unlink %s: %w", ref.column, err)
			}
		}
		return tx.Delete(&target).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if claimedSubject != "" {
		if err := s.idp.Delete(claimedSubject); err != nil {
			slog.Error("external identity deletion failed",
				"error", err,
				"user_id", target.ID.String(),
				"action", "delete_user",
			)
		}
	}

	slog.Info("user deleted", "user_id", target.ID.String(), "role", string(target.Role))
	return nil
}
