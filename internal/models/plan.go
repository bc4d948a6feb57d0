package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkoutPlan is trainer-authored gym content. CreatedBy is an authorship
// reference the safe-delete coordinator nulls rather than cascading.
type WorkoutPlan struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GymID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"gym_id"`
	Title       string     `gorm:"not null;size:150" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DietPlan mirrors WorkoutPlan for nutrition content.
type DietPlan struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GymID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"gym_id"`
	Title       string     `gorm:"not null;size:150" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid;index" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Plan assignment kinds.
const (
	PlanKindWorkout = "workout"
	PlanKindDiet    = "diet"
)

// PlanAssignment links a plan to a member. MemberID is subject-owned (the
// row goes away with the member); AssignedBy is an actor reference that is
// only ever nulled.
type PlanAssignment struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GymID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"gym_id"`
	PlanKind   string     `gorm:"size:10;not null" json:"plan_kind"`
	PlanID     uuid.UUID  `gorm:"type:uuid;not null" json:"plan_id"`
	MemberID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"member_id"`
	AssignedBy *uuid.UUID `gorm:"type:uuid;index" json:"assigned_by"`
	AssignedAt time.Time  `gorm:"not null" json:"assigned_at"`

	Member User `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"-"`
}
