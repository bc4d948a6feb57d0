package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/config"
	"github.com/gymstack/gymstack-backend/internal/models"
	"github.com/gymstack/gymstack-backend/internal/tenant"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService owns invitation-time creation and the mutable profile fields.
type UserService struct {
	db     *gorm.DB
	cfg    *config.Config
	mailer Mailer
}

func NewUserService(db *gorm.DB, cfg *config.Config, mailer Mailer) *UserService {
	return &UserService{db: db, cfg: cfg, mailer: mailer}
}

type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Role      models.Role
	GymID     *uuid.UUID
	// PlanID, when set on a member, starts a membership and books the
	// revenue transaction after the row exists.
	PlanID *uuid.UUID
}

type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
}

// CreateUser inserts an invited directory row and mails the one-time invite
// code. The insert relies on the unique email index rather than a
// read-then-write check, so two concurrent creates for one address yield
// exactly one row and one conflict.
func (s *UserService) CreateUser(actor *models.User, in CreateUserInput) (*models.User, error) {
	if err := Authorize(actor, ActionCreate, in.Role); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("a valid email is required")
	}

	gymID := in.GymID
	if gymID == nil {
		// Admins create within their own gym.
		gymID = actor.GymID
	}
	if gymID == nil {
		return nil, errors.New("a gym is required for " + string(in.Role) + " accounts")
	}
	if err := authorizeGym(actor, gymID); err != nil {
		return nil, err
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash invite code: %w", err)
	}

	user := models.User{
		ID:                  uuid.New(),
		Email:               email,
		FirstName:           strings.TrimSpace(in.FirstName),
		LastName:            strings.TrimSpace(in.LastName),
		Phone:               strings.TrimSpace(in.Phone),
		Role:                in.Role,
		GymID:               gymID,
		PlaceholderIdentity: newPlaceholderIdentity(in.Role),
		IdentityState:       models.IdentityInvited,
		InviteCodeHash:      string(hash),
		IsActive:            true,
	}

	if err := s.db.Create(&user).Error; err != nil {
		var existing models.User
		if lookupErr := s.db.Where("email = ?", email).First(&existing).Error; lookupErr == nil {
			return nil, fmt.Errorf("%w: %s already belongs to a %s account", ErrEmailTaken, email, existing.Role)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if in.Role == models.RoleMember && in.PlanID != nil {
		s.startMembership(&user, *in.PlanID)
	}

	s.sendInvite(&user, code)
	return &user, nil
}

// UpdateUser changes mutable display fields. Email and role are immutable
// through this path.
func (s *UserService) UpdateUser(actor *models.User, targetID uuid.UUID, in UpdateUserInput) (*models.User, error) {
	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := Authorize(actor, ActionUpdate, target.Role); err != nil {
		return nil, err
	}
	if err := authorizeGym(actor, target.GymID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if len(updates) == 0 {
		return &target, nil
	}

	if err := s.db.Model(&target).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &target, nil
}

// ResendInvitation rotates the invite code for a still-invited row and mails
// it again. Claimed accounts cannot be re-invited.
func (s *UserService) ResendInvitation(actor *models.User, targetID uuid.UUID) error {
	var target models.User
	if err := s.db.First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if err := Authorize(actor, ActionResendInvite, target.Role); err != nil {
		return err
	}
	if err := authorizeGym(actor, target.GymID); err != nil {
		return err
	}
	if target.IdentityState != models.IdentityInvited {
		return ErrAlreadyClaimed
	}

	code, err := newInviteCode()
	if err != nil {
		return fmt.Errorf("failed to generate invite code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash invite code: %w", err)
	}

	if err := s.db.Model(&target).Update("invite_code_hash", string(hash)).Error; err != nil {
		return fmt.Errorf("failed to rotate invite code: %w", err)
	}

	s.sendInvite(&target, code)
	return nil
}

// ListUsers returns the gym's directory, staff first.
func (s *UserService) ListUsers(actor *models.User, gymID uuid.UUID) ([]models.User, error) {
	if actor == nil || (actor.Role != models.RoleSuperuser && actor.Role != models.RoleAdmin) {
		return nil, fmt.Errorf("%w: only staff may list the directory", ErrForbidden)
	}
	if actor.Role == models.RoleAdmin && (actor.GymID == nil || *actor.GymID != gymID) {
		return nil, fmt.Errorf("%w: admins may only list their own gym", ErrForbidden)
	}

	var users []models.User
	err := s.db.Scopes(tenant.ForGym(gymID)).
		Order("role asc, created_at asc").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// startMembership is the financial trigger on member creation with a selected
// plan: one membership row plus one revenue transaction. The user row is
// guaranteed to exist by now; bookkeeping failures are logged, not surfaced.
func (s *UserService) startMembership(user *models.User, planID uuid.UUID) {
	var plan models.MembershipPlan
	if err := s.db.First(&plan, "id = ?", planID).Error; err != nil {
		slog.Error("membership plan lookup failed", "error", err, "user_id", user.ID.String(), "action", "start_membership")
		return
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		membership := models.Membership{
			ID:        uuid.New(),
			GymID:     plan.GymID,
			UserID:    user.ID,
			PlanID:    plan.ID,
			StartDate: now,
			EndDate:   now.AddDate(0, 0, plan.DurationDays),
			Status:    "active",
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		txn := models.Transaction{
			ID:          uuid.New(),
			GymID:       plan.GymID,
			Type:        models.TransactionRevenue,
			Category:    "membership",
			Amount:      plan.Price,
			Description: plan.Name + " membership for " + user.Email,
			RelatedUser: &user.ID,
			Date:        now,
		}
		return tx.Create(&txn).Error
	})
	if err != nil {
		slog.Error("membership bookkeeping failed", "error", err, "user_id", user.ID.String(), "action", "start_membership")
	}
}

func (s *UserService) sendInvite(user *models.User, code string) {
	inviteURL := s.cfg.InviteBaseURL + "?code=" + code
	res := s.mailer.SendInvitation(user.Email, user.Role, user.FirstName, user.LastName, inviteURL)
	if !res.Success {
		slog.Error("invitation email failed", "error", res.Message, "user_id", user.ID.String(), "action", "send_invite")
	}
}

// newPlaceholderIdentity builds the synthetic identifier assigned before any
// real sign-in: role prefix, creation timestamp, random suffix. Claim state
// is tracked by IdentityState, never parsed back out of this string.
func newPlaceholderIdentity(role models.Role) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%s_%d_%s", role, time.Now().Unix(), hex.EncodeToString(suffix))
}

func newInviteCode() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
