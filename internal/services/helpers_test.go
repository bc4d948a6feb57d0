package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/config"
	"github.com/gymstack/gymstack-backend/internal/identity"
	"github.com/gymstack/gymstack-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory SQLite database with the full schema.
// The pool is pinned to one connection so the in-memory store is shared by
// every query in the test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// SQLite leaves foreign keys off unless asked; the delete cascades
	// depend on them.
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	err = db.AutoMigrate(
		&models.Gym{},
		&models.User{},
		&models.UserProfile{},
		&models.Notification{},
		&models.MembershipPlan{},
		&models.Membership{},
		&models.Transaction{},
		&models.WorkoutPlan{},
		&models.DietPlan{},
		&models.PlanAssignment{},
		&models.Attendance{},
		&models.ProgressLog{},
		&models.Announcement{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:      "test-secret",
		SessionExpiry:  time.Hour,
		BootstrapEmail: "root@gymstack.io",
		InviteBaseURL:  "https://app.example.com/invite",
	}
}

func seedGym(t *testing.T, db *gorm.DB, name string) *models.Gym {
	t.Helper()
	gym := &models.Gym{ID: uuid.New(), Name: name, IsActive: true}
	if err := db.Create(gym).Error; err != nil {
		t.Fatalf("seed gym: %v", err)
	}
	return gym
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role, email string, gymID *uuid.UUID) *models.User {
	t.Helper()
	user := &models.User{
		ID:                  uuid.New(),
		Email:               email,
		Role:                role,
		GymID:               gymID,
		PlaceholderIdentity: newPlaceholderIdentity(role),
		IdentityState:       models.IdentityInvited,
		IsActive:            true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return user
}

func seedClaimedUser(t *testing.T, db *gorm.DB, role models.Role, email, subject string, gymID *uuid.UUID) *models.User {
	t.Helper()
	user := seedUser(t, db, role, email, gymID)
	if err := db.Model(user).Updates(map[string]interface{}{
		"external_identity": subject,
		"identity_state":    models.IdentityClaimed,
	}).Error; err != nil {
		t.Fatalf("claim user %s: %v", email, err)
	}
	user.ExternalIdentity = &subject
	user.IdentityState = models.IdentityClaimed
	return user
}

// fakeIdentityStore implements identity.Provider for tests.
type fakeIdentityStore struct {
	deleted    []string
	failDelete bool
}

func (f *fakeIdentityStore) Verify(token string) (*identity.Identity, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeIdentityStore) Delete(subject string) error {
	if f.failDelete {
		return errors.New("identity store unreachable")
	}
	f.deleted = append(f.deleted, subject)
	return nil
}

type sentInvite struct {
	Email     string
	Role      models.Role
	InviteURL string
}

// fakeMailer records invitations instead of sending them.
type fakeMailer struct {
	sent []sentInvite
	fail bool
}

func (f *fakeMailer) SendInvitation(email string, role models.Role, firstName, lastName, inviteURL string) InviteResult {
	if f.fail {
		return InviteResult{Success: false, Message: "smtp unavailable"}
	}
	f.sent = append(f.sent, sentInvite{Email: email, Role: role, InviteURL: inviteURL})
	return InviteResult{Success: true, Message: "sent"}
}

func newUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.User{}).Count(&n).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}
