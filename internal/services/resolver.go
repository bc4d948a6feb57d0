package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/config"
	"github.com/gymstack/gymstack-backend/internal/identity"
	"github.com/gymstack/gymstack-backend/internal/models"
	"gorm.io/gorm"
)

// Resolver maps a verified external identity to a directory record.
//
// The fast path (lookup by subject) dominates traffic; the resolved record is
// memoized per request by the actor middleware, so services never re-derive
// the caller. Persistence failures degrade to "unauthenticated" rather than
// surfacing as a server fault.
type Resolver struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewResolver(db *gorm.DB, cfg *config.Config) *Resolver {
	return &Resolver{db: db, cfg: cfg}
}

// Resolve returns the directory record for ident, claiming an invited row or
// bootstrapping the configured superuser as needed. Unknown identities are
// never auto-provisioned: a record must have been created by an administrator
// first, and resolution fails with ErrUnknownIdentity otherwise.
func (r *Resolver) Resolve(ident *identity.Identity) (*models.User, error) {
	if ident == nil || ident.Subject == "" {
		return nil, ErrUnknownIdentity
	}

	// Fast path: the identity has signed in before.
	var user models.User
	err := r.db.Where("external_identity = ?", ident.Subject).First(&user).Error
	if err == nil {
		return r.ensureGym(&user), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Error("identity lookup failed", "error", err, "action", "resolve")
		return nil, ErrUnknownIdentity
	}

	email := strings.ToLower(strings.TrimSpace(ident.Email))
	if email == "" {
		return nil, ErrUnknownIdentity
	}

	// One-time root bootstrap: the configured address self-provisions the
	// superuser. Idempotent because the fast path matches afterwards.
	if r.cfg.BootstrapEmail != "" && email == strings.ToLower(r.cfg.BootstrapEmail) {
		return r.bootstrapSuperuser(ident, email)
	}

	// Claim: an administrator invited this address earlier.
	err = r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnknownIdentity
	}
	if err != nil {
		slog.Error("email lookup failed", "error", err, "action", "resolve")
		return nil, ErrUnknownIdentity
	}

	if err := r.claim(&user, ident); err != nil {
		slog.Error("claim transition failed", "error", err, "user_id", user.ID.String(), "action", "resolve")
		return nil, ErrUnknownIdentity
	}

	return r.ensureGym(&user), nil
}

func (r *Resolver) bootstrapSuperuser(ident *identity.Identity, email string) (*models.User, error) {
	user := models.User{
		ID:               uuid.New(),
		Email:            email,
		FirstName:        ident.GivenName,
		LastName:         ident.FamilyName,
		Role:             models.RoleSuperuser,
		ExternalIdentity: &ident.Subject,
		IdentityState:    models.IdentityClaimed,
		IsActive:         true,
	}
	if err := r.db.Create(&user).Error; err != nil {
		// Lost a concurrent bootstrap race: the unique email index is the
		// safety net, so re-read instead of failing.
		var existing models.User
		if lookupErr := r.db.Where("external_identity = ?", ident.Subject).First(&existing).Error; lookupErr == nil {
			return &existing, nil
		}
		slog.Error("superuser bootstrap failed", "error", err, "action", "resolve")
		return nil, ErrUnknownIdentity
	}
	slog.Info("superuser bootstrapped", "user_id", user.ID.String())
	return &user, nil
}

// claim attaches the external identity to an invited row. Display fields are
// refreshed from the provider only where the directory's own field is empty;
// the account is force-activated so a deactivation before first sign-in does
// not lock the person out of claiming. Runs in one transaction so no caller
// observes a half-updated record.
func (r *Resolver) claim(user *models.User, ident *identity.Identity) error {
	updates := map[string]interface{}{
		"external_identity": ident.Subject,
		"identity_state":    models.IdentityClaimed,
		"invite_code_hash":  "",
		"is_active":         true,
	}
	if user.FirstName == "" && ident.GivenName != "" {
		updates["first_name"] = ident.GivenName
	}
	if user.LastName == "" && ident.FamilyName != "" {
		updates["last_name"] = ident.FamilyName
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Model(user).Updates(updates).Error
	})
	if err != nil {
		return fmt.Errorf("failed to persist claim: %w", err)
	}

	user.ExternalIdentity = &ident.Subject
	user.IdentityState = models.IdentityClaimed
	user.InviteCodeHash = ""
	user.IsActive = true
	return nil
}

// ensureGym backfills a missing gym reference from the default (oldest) gym.
// Legacy-data repair, not a normal path.
func (r *Resolver) ensureGym(user *models.User) *models.User {
	if user.GymID != nil || user.Role == models.RoleSuperuser {
		return user
	}

	var gym models.Gym
	if err := r.db.Order("created_at asc").First(&gym).Error; err != nil {
		return user
	}

	if err := r.db.Model(user).Update("gym_id", gym.ID).Error; err != nil {
		slog.Error("gym backfill failed", "error", err, "user_id", user.ID.String(), "action", "resolve")
		return user
	}
	user.GymID = &gym.ID
	slog.Warn("backfilled missing gym on user", "user_id", user.ID.String(), "gym_id", gym.ID.String())
	return user
}
