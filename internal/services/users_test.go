package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gymstack/gymstack-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

func TestCreateUserInvited(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)

	mailer := &fakeMailer{}
	svc := NewUserService(db, testConfig(), mailer)

	user, err := svc.CreateUser(admin, CreateUserInput{
		Email:     " T@Example.com ",
		FirstName: "Taylor",
		Role:      models.RoleTrainer,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if user.Email != "t@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.IdentityState != models.IdentityInvited {
		t.Errorf("identity state = %s, want invited", user.IdentityState)
	}
	if user.ExternalIdentity != nil {
		t.Error("external identity must be nil until claimed")
	}
	if !strings.HasPrefix(user.PlaceholderIdentity, "trainer_") {
		t.Errorf("placeholder %q does not start with role prefix", user.PlaceholderIdentity)
	}
	if !user.IsActive {
		t.Error("invited user must start active")
	}
	if user.GymID == nil || *user.GymID != gym.ID {
		t.Errorf("gym not inherited from actor: %v", user.GymID)
	}

	if len(mailer.sent) != 1 {
		t.Fatalf("invitations sent = %d, want 1", len(mailer.sent))
	}
	code := strings.TrimPrefix(mailer.sent[0].InviteURL, testConfig().InviteBaseURL+"?code=")
	if err := bcrypt.CompareHashAndPassword([]byte(user.InviteCodeHash), []byte(code)); err != nil {
		t.Error("stored hash does not match the mailed invite code")
	}
}

func TestCreateUserDuplicateEmailNamesRole(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)
	seedUser(t, db, models.RoleTrainer, "taken@example.com", &gym.ID)

	svc := NewUserService(db, testConfig(), &fakeMailer{})
	_, err := svc.CreateUser(admin, CreateUserInput{Email: "taken@example.com", Role: models.RoleMember})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}
	if !strings.Contains(err.Error(), "trainer") {
		t.Errorf("conflict does not name the existing role: %v", err)
	}
	if n := countUsers(t, db); n != 2 {
		t.Errorf("user rows = %d, want 2", n)
	}
}

func TestCreateUserRoleGate(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)
	trainer := seedUser(t, db, models.RoleTrainer, "trainer@example.com", &gym.ID)

	svc := NewUserService(db, testConfig(), &fakeMailer{})

	if _, err := svc.CreateUser(admin, CreateUserInput{Email: "a2@example.com", Role: models.RoleAdmin}); !errors.Is(err, ErrForbidden) {
		t.Errorf("admin creating admin: want ErrForbidden, got %v", err)
	}
	if _, err := svc.CreateUser(admin, CreateUserInput{Email: "s@example.com", Role: models.RoleSuperuser}); !errors.Is(err, ErrForbidden) {
		t.Errorf("creating superuser: want ErrForbidden, got %v", err)
	}
	if _, err := svc.CreateUser(trainer, CreateUserInput{Email: "m@example.com", Role: models.RoleMember}); !errors.Is(err, ErrForbidden) {
		t.Errorf("trainer creating member: want ErrForbidden, got %v", err)
	}
}

func TestCreateMemberWithPlanBooksRevenue(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)

	plan := models.MembershipPlan{ID: newUUID(t), GymID: gym.ID, Name: "Gold", Price: 59.90, DurationDays: 30}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatal(err)
	}

	svc := NewUserService(db, testConfig(), &fakeMailer{})
	user, err := svc.CreateUser(admin, CreateUserInput{
		Email:  "member@example.com",
		Role:   models.RoleMember,
		PlanID: &plan.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var membership models.Membership
	if err := db.First(&membership, "user_id = ?", user.ID).Error; err != nil {
		t.Fatalf("membership row missing: %v", err)
	}
	if membership.PlanID != plan.ID {
		t.Errorf("membership plan = %s, want %s", membership.PlanID, plan.ID)
	}

	var txn models.Transaction
	if err := db.First(&txn, "related_user = ?", user.ID).Error; err != nil {
		t.Fatalf("revenue transaction missing: %v", err)
	}
	if txn.Type != models.TransactionRevenue || txn.Amount != plan.Price {
		t.Errorf("transaction %s/%v, want revenue/%v", txn.Type, txn.Amount, plan.Price)
	}
}

func TestCreateUserSurvivesMailFailure(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)

	svc := NewUserService(db, testConfig(), &fakeMailer{fail: true})
	if _, err := svc.CreateUser(admin, CreateUserInput{Email: "t@example.com", Role: models.RoleTrainer}); err != nil {
		t.Fatalf("mail failure must not block creation: %v", err)
	}
	if n := countUsers(t, db); n != 2 {
		t.Errorf("user rows = %d, want 2", n)
	}
}

func TestUpdateUserMutableFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)
	target := seedUser(t, db, models.RoleMember, "m@example.com", &gym.ID)

	svc := NewUserService(db, testConfig(), &fakeMailer{})
	name := "Jordan"
	phone := "555-0101"
	if _, err := svc.UpdateUser(admin, target.ID, UpdateUserInput{FirstName: &name, Phone: &phone}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", target.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.FirstName != "Jordan" || stored.Phone != "555-0101" {
		t.Errorf("fields not updated: %q %q", stored.FirstName, stored.Phone)
	}
	if stored.Email != "m@example.com" {
		t.Errorf("email changed: %q", stored.Email)
	}
}

func TestResendInvitation(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)
	invited := seedUser(t, db, models.RoleMember, "m@example.com", &gym.ID)
	claimed := seedClaimedUser(t, db, models.RoleMember, "c@example.com", "idp|c", &gym.ID)

	mailer := &fakeMailer{}
	svc := NewUserService(db, testConfig(), mailer)

	if err := svc.ResendInvitation(admin, invited.ID); err != nil {
		t.Fatalf("resend: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Errorf("invitations sent = %d, want 1", len(mailer.sent))
	}

	var stored models.User
	if err := db.First(&stored, "id = ?", invited.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.InviteCodeHash == "" {
		t.Error("invite code not rotated")
	}

	if err := svc.ResendInvitation(admin, claimed.ID); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("resend to claimed: want ErrAlreadyClaimed, got %v", err)
	}
}

// Rows created without an explicit ID get one from the model hook, so ID
// generation does not depend on a database-side default.
func TestCreateAssignsMissingIDs(t *testing.T) {
	db := newTestDB(t)

	gym := models.Gym{Name: "Iron Temple", IsActive: true}
	if err := db.Create(&gym).Error; err != nil {
		t.Fatalf("create gym: %v", err)
	}
	if gym.ID == uuid.Nil {
		t.Error("gym ID not assigned on create")
	}

	user := models.User{Email: "hook@example.com", Role: models.RoleMember, GymID: &gym.ID}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.ID == uuid.Nil {
		t.Error("user ID not assigned on create")
	}
}

func TestUpdateUserNotFound(t *testing.T) {
	db := newTestDB(t)
	gym := seedGym(t, db, "Iron Temple")
	admin := seedUser(t, db, models.RoleAdmin, "admin@example.com", &gym.ID)

	svc := NewUserService(db, testConfig(), &fakeMailer{})
	name := "x"
	if _, err := svc.UpdateUser(admin, newUUID(t), UpdateUserInput{FirstName: &name}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}
