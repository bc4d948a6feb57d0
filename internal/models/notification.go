package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by the lifecycle engine.
const (
	NotificationGymActivated   = "gym_activated"
	NotificationGymDeactivated = "gym_deactivated"
)

// Notification is an in-app message for one recipient. The cascade engine
// inserts these in bulk; the recipient portal only reads and flips is_read.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	GymID     *uuid.UUID `gorm:"type:uuid;index" json:"gym_id"`
	Title     string     `gorm:"not null;size:200" json:"title"`
	Message   string     `gorm:"type:text" json:"message"`
	Type      string     `gorm:"size:50;index" json:"type"`
	IsRead    bool       `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}
