package models

import (
	"time"

	"github.com/google/uuid"
)

// MembershipPlan is a priced offering of one gym.
type MembershipPlan struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GymID        uuid.UUID `gorm:"type:uuid;not null;index" json:"gym_id"`
	Name         string    `gorm:"not null;size:100" json:"name"`
	Price        float64   `gorm:"not null" json:"price"`
	DurationDays int       `gorm:"not null" json:"duration_days"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Membership is a member's subscription to a plan. It belongs to the member
// and is removed with them by the database cascade.
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GymID     uuid.UUID `gorm:"type:uuid;not null;index" json:"gym_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null" json:"plan_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User           `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Plan MembershipPlan `gorm:"foreignKey:PlanID" json:"-"`
}

// Transaction types.
const (
	TransactionRevenue = "revenue"
	TransactionExpense = "expense"
)

// Transaction is a row in the gym's financial ledger. RelatedUser is a
// historical reference only: the safe-delete coordinator nulls it instead of
// removing the row, so the books survive the person.
type Transaction struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	GymID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"gym_id"`
	Type        string     `gorm:"size:20;not null" json:"type"`
	Category    string     `gorm:"size:50" json:"category"`
	Amount      float64    `gorm:"not null" json:"amount"`
	Description string     `gorm:"size:255" json:"description"`
	RelatedUser *uuid.UUID `gorm:"type:uuid;index" json:"related_user"`
	Date        time.Time  `gorm:"not null" json:"date"`
	CreatedAt   time.Time  `json:"created_at"`
}
