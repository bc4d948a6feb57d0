package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/models"
	"gorm.io/gorm"
)

// NotificationService is the read side of the notification sink the cascade
// engine writes into.
type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// List returns the recipient's notifications, unread first, newest first.
func (s *NotificationService) List(userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var notes []models.Notification
	err := s.db.
		Where("user_id = ?", userID).
		Order("is_read asc, created_at desc").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notes, nil
}

// MarkRead flips one notification owned by the recipient.
func (s *NotificationService) MarkRead(userID, noteID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", noteID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// MarkAllRead flips everything unread for the recipient.
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
