package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gymstack/gymstack-backend/internal/config"
	"github.com/gymstack/gymstack-backend/internal/identity"
	"github.com/gymstack/gymstack-backend/internal/models"
)

// SessionService exchanges a verified external identity for a short-lived
// session token. The identity token is re-verifiable at any time, so there is
// no refresh-token store; an expired session just re-runs the exchange.
type SessionService struct {
	cfg      *config.Config
	idp      identity.Provider
	resolver *Resolver
}

func NewSessionService(cfg *config.Config, idp identity.Provider, resolver *Resolver) *SessionService {
	return &SessionService{cfg: cfg, idp: idp, resolver: resolver}
}

// Establish verifies the identity token, resolves the directory record, and
// issues a session JWT. Resolution failure means the caller is simply
// unauthenticated; unknown identities are never provisioned here.
func (s *SessionService) Establish(identityToken string) (string, *models.User, error) {
	ident, err := s.idp.Verify(identityToken)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnknownIdentity, err)
	}

	user, err := s.resolver.Resolve(ident)
	if err != nil {
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	return token, user, nil
}

func (s *SessionService) issueToken(user *models.User) (string, error) {
	expiry := s.cfg.SessionExpiry
	if expiry <= 0 {
		expiry = 12 * time.Hour
	}
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(expiry).Unix(),
	}
	if user.GymID != nil {
		claims["gym_id"] = user.GymID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
