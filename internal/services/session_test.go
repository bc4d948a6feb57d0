package services

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gymstack/gymstack-backend/internal/identity"
	"github.com/gymstack/gymstack-backend/internal/models"
)

type stubProvider struct {
	ident *identity.Identity
	err   error
}

func (s *stubProvider) Verify(token string) (*identity.Identity, error) { return s.ident, s.err }
func (s *stubProvider) Delete(subject string) error                     { return nil }

func TestEstablishIssuesSessionToken(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gym := seedGym(t, db, "Iron Temple")
	invited := seedUser(t, db, models.RoleTrainer, "t@example.com", &gym.ID)

	idp := &stubProvider{ident: &identity.Identity{Subject: "idp|t1", Email: "t@example.com"}}
	svc := NewSessionService(cfg, idp, NewResolver(db, cfg))

	token, user, err := svc.Establish("any-identity-token")
	if err != nil {
		t.Fatalf("establish: %v", err)
	}
	if user.ID != invited.ID {
		t.Errorf("wrong user: %s", user.ID)
	}

	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("session token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != invited.ID.String() {
		t.Errorf("sub = %v", claims["sub"])
	}
	if claims["role"] != string(models.RoleTrainer) {
		t.Errorf("role = %v", claims["role"])
	}
	exp, iat := claims["exp"].(float64), claims["iat"].(float64)
	if exp <= iat {
		t.Errorf("token issued already expired: exp=%v iat=%v", exp, iat)
	}
}

func TestEstablishDefaultsExpiryWhenUnset(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.SessionExpiry = 0
	gym := seedGym(t, db, "Iron Temple")
	seedUser(t, db, models.RoleTrainer, "t@example.com", &gym.ID)

	idp := &stubProvider{ident: &identity.Identity{Subject: "idp|t1", Email: "t@example.com"}}
	svc := NewSessionService(cfg, idp, NewResolver(db, cfg))

	token, _, err := svc.Establish("token")
	if err != nil {
		t.Fatalf("establish: %v", err)
	}
	parsed, err := jwt.Parse(token, func(tok *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("zero-expiry config produced an unusable token: %v", err)
	}
}

func TestEstablishRejectsBadIdentityToken(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	idp := &stubProvider{err: errors.New("signature verification failed")}
	svc := NewSessionService(cfg, idp, NewResolver(db, cfg))

	if _, _, err := svc.Establish("garbage"); !errors.Is(err, ErrUnknownIdentity) {
		t.Fatalf("want ErrUnknownIdentity, got %v", err)
	}
}

func TestEstablishRejectsDeactivatedAccount(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	gym := seedGym(t, db, "Iron Temple")
	claimed := seedClaimedUser(t, db, models.RoleMember, "m@example.com", "idp|m1", &gym.ID)
	if err := db.Model(claimed).Update("is_active", false).Error; err != nil {
		t.Fatal(err)
	}

	idp := &stubProvider{ident: &identity.Identity{Subject: "idp|m1", Email: "m@example.com"}}
	svc := NewSessionService(cfg, idp, NewResolver(db, cfg))

	if _, _, err := svc.Establish("token"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}
