package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CascadeService propagates an admin's activation state to their whole gym.
type CascadeService struct {
	db *gorm.DB
}

func NewCascadeService(db *gorm.DB) *CascadeService {
	return &CascadeService{db: db}
}

// SetActiveStatus toggles a user's active flag. When a superuser toggles a
// gym's admin, the change cascades: every trainer and member of that gym is
// flipped with one bulk update and each affected person (the admin included)
// gets a notification. Toggling a trainer or member never cascades, and an
// admin toggling anyone never cascades.
//
// Cascade membership is defined by the write-side predicate
// (gym + role IN (trainer, member)); the read-side list only addresses
// notifications. The status updates and the notification batch commit in one
// transaction, so a crash cannot leave the gym half-toggled.
func (s *CascadeService) SetActiveStatus(actor *models.User, targetID uuid.UUID, active bool) error {
	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := Authorize(actor, ActionSetStatus, target.Role); err != nil {
		return err
	}
	if err := authorizeGym(actor, target.GymID); err != nil {
		return err
	}

	cascades := target.Role == models.RoleAdmin &&
		actor.Role == models.RoleSuperuser &&
		target.GymID != nil

	if !cascades {
		if err := s.db.Model(&target).Update("is_active", active).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}
		return nil
	}

	gymID := *target.GymID

	// Independent read-only lookups, issued concurrently: the gym row names
	// the notifications, the member list addresses them.
	var gym models.Gym
	var affected []models.User
	g := new(errgroup.Group)
	g.Go(func() error {
		return s.db.First(&gym, "id = ?", gymID).Error
	})
	g.Go(func() error {
		return s.db.
			Where("gym_id = ? AND id <> ? AND role IN ?", gymID, target.ID, []models.Role{models.RoleTrainer, models.RoleMember}).
			Find(&affected).Error
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load gym state: %w", err)
	}

	title, message, noteType := cascadeNotice(active, gym.Name)
	notes := make([]models.Notification, 0, len(affected)+1)
	for _, u := range append(affected, target) {
		notes = append(notes, models.Notification{
			ID:      uuid.New(),
			UserID:  u.ID,
			GymID:   &gymID,
			Title:   title,
			Message: message,
			Type:    noteType,
		})
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", target.ID).
			Update("is_active", active).Error; err != nil {
			return fmt.Errorf("failed to update admin status: %w", err)
		}

		if err := tx.Model(&models.User{}).
			Where("gym_id = ? AND id <> ? AND role IN ?", gymID, target.ID, []models.Role{models.RoleTrainer, models.RoleMember}).
			Update("is_active", active).Error; err != nil {
			return fmt.Errorf("failed to cascade status: %w", err)
		}

		if err := tx.CreateInBatches(notes, 100).Error; err != nil {
			return fmt.Errorf("failed to insert notifications: %w", err)
		}
		return nil
	})
}

func cascadeNotice(active bool, gymName string) (title, message, noteType string) {
	if active {
		return "Gym reactivated",
			fmt.Sprintf("%s is open again and your account has been reactivated.", gymName),
			models.NotificationGymActivated
	}
	return "Gym deactivated",
		fmt.Sprintf("%s has been deactivated and your account is suspended until further notice.", gymName),
		models.NotificationGymDeactivated
}
