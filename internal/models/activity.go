package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is one check-in. MemberID is subject-owned; MarkedBy is the
// staff actor and survives only as a nullable reference.
type Attendance struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GymID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"gym_id"`
	MemberID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"member_id"`
	CheckIn   time.Time  `gorm:"not null" json:"check_in"`
	MarkedBy  *uuid.UUID `gorm:"type:uuid;index" json:"marked_by"`
	CreatedAt time.Time  `json:"created_at"`

	Member User `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}

// ProgressLog records a member's measurements over time.
type ProgressLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GymID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"gym_id"`
	MemberID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"member_id"`
	WeightKg   float64    `json:"weight_kg"`
	BodyFatPct float64    `json:"body_fat_pct"`
	Notes      string     `gorm:"size:500" json:"notes"`
	LoggedBy   *uuid.UUID `gorm:"type:uuid;index" json:"logged_by"`
	LoggedAt   time.Time  `gorm:"not null" json:"logged_at"`

	Member User `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}

// Announcement is a gym-wide notice with a nullable author reference.
type Announcement struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GymID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"gym_id"`
	Title     string     `gorm:"not null;size:200" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	PostedBy  *uuid.UUID `gorm:"type:uuid;index" json:"posted_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
