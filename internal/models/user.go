package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the directory-wide role hierarchy: superuser > admin > trainer > member.
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleAdmin     Role = "admin"
	RoleTrainer   Role = "trainer"
	RoleMember    Role = "member"
)

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperuser, RoleAdmin, RoleTrainer, RoleMember:
		return true
	}
	return false
}

// IdentityState tracks whether a directory row has been claimed by a real
// sign-in. It is an explicit field, never derived from identifier shape.
type IdentityState string

const (
	IdentityInvited IdentityState = "invited"
	IdentityClaimed IdentityState = "claimed"
)

// User is the directory record for every person across all gyms.
// Rows are created by an admin action (invited) before the person ever signs
// in; the first sign-in with a matching email attaches the external identity
// (claimed). Deletion is a hard removal, so there is no soft-delete column.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email string    `gorm:"not null;size:255;uniqueIndex" json:"email"`

	FirstName string `gorm:"size:100" json:"first_name"`
	LastName  string `gorm:"size:100" json:"last_name"`
	Phone     string `gorm:"size:30" json:"phone"`

	Role  Role       `gorm:"size:20;not null;default:'member'" json:"role"`
	GymID *uuid.UUID `gorm:"type:uuid;index" json:"gym_id"` // nil for superusers

	// ExternalIdentity is the identity-provider subject, set on claim.
	// PlaceholderIdentity is assigned at invitation and retained for audit.
	ExternalIdentity    *string       `gorm:"size:255;index" json:"-"`
	PlaceholderIdentity string        `gorm:"size:120" json:"-"`
	IdentityState       IdentityState `gorm:"size:10;not null;default:'invited'" json:"identity_state"`

	// InviteCodeHash is the bcrypt hash of the one-time code mailed at
	// invitation; cleared once the row is claimed.
	InviteCodeHash string `gorm:"size:80" json:"-"`

	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Gym     *Gym         `gorm:"foreignKey:GymID" json:"-"`
	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// UserProfile holds one-to-one personal details owned by a user. It is
// removed together with its user by the database cascade.
type UserProfile struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Address          string     `gorm:"size:255" json:"address"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	EmergencyContact string     `gorm:"size:100" json:"emergency_contact"`
	AvatarURL        string     `gorm:"size:500" json:"avatar_url"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
