package services

import (
	"strings"
	"testing"

	"github.com/gymstack/gymstack-backend/internal/identity"
	"github.com/gymstack/gymstack-backend/internal/models"
)

// Full account lifecycle: invite, claim on first sign-in, gym-wide
// deactivation through the admin.
func TestLifecycleInviteClaimCascade(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gym := seedGym(t, db, "Iron Temple")
	super := seedUser(t, db, models.RoleSuperuser, "root@example.com", nil)
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)

	users := NewUserService(db, cfg, &fakeMailer{})
	resolver := NewResolver(db, cfg)
	cascade := NewCascadeService(db)

	// Admin invites a trainer.
	trainer, err := users.CreateUser(admin, CreateUserInput{
		Email: "t@example.com",
		Role:  models.RoleTrainer,
	})
	if err != nil {
		t.Fatalf("create trainer: %v", err)
	}
	if !trainer.IsActive || trainer.ExternalIdentity != nil {
		t.Fatal("invited trainer should be active with no external identity")
	}
	if !strings.HasPrefix(trainer.PlaceholderIdentity, "trainer_") {
		t.Fatalf("placeholder %q lacks role prefix", trainer.PlaceholderIdentity)
	}

	// The person signs in for the first time.
	resolved, err := resolver.Resolve(&identity.Identity{Subject: "idp|t77", Email: "t@example.com"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != trainer.ID {
		t.Fatalf("resolver returned a different row: %s vs %s", resolved.ID, trainer.ID)
	}
	if resolved.ExternalIdentity == nil || *resolved.ExternalIdentity != "idp|t77" {
		t.Fatal("external identity not attached on claim")
	}
	if !resolved.IsActive {
		t.Fatal("claimed trainer should be active")
	}

	// Superuser deactivates the gym's admin; the trainer goes with it.
	if err := cascade.SetActiveStatus(super, admin.ID, false); err != nil {
		t.Fatalf("deactivate admin: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", trainer.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.IsActive {
		t.Error("trainer still active after gym deactivation")
	}

	var notes []models.Notification
	if err := db.Where("user_id = ? AND type = ?", trainer.ID, models.NotificationGymDeactivated).Find(&notes).Error; err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Errorf("trainer notifications = %d, want 1", len(notes))
	}
}
