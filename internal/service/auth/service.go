package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinicdesk/frontdesk-api/internal/model"
	"github.com/clinicdesk/frontdesk-api/internal/repository"
	apperrors "github.com/clinicdesk/frontdesk-api/pkg/errors"
	"github.com/clinicdesk/frontdesk-api/pkg/security"
	"github.com/clinicdesk/frontdesk-api/pkg/token"
)

// Service handles staff login, logout and token validation
type Service struct {
	staffRepo repository.StaffRepository
	tokens    token.Service
	hasher    security.PasswordHasher
	revoked   repository.TokenStore
}

// NewService wires the auth service. revoked may be nil, in which case
// logout only clears the cookie and tokens stay valid until expiry.
func NewService(staffRepo repository.StaffRepository, tokens token.Service, hasher security.PasswordHasher, revoked repository.TokenStore) *Service {
	return &Service{
		staffRepo: staffRepo,
		tokens:    tokens,
		hasher:    hasher,
		revoked:   revoked,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (*model.StaffToken, error) {
	staff, err := s.staffRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", err)
	}

	if err := s.hasher.Compare(staff.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", err)
	}

	signed, err := s.tokens.Generate(staff.ID, staff.Username, staff.Role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.StaffToken{
		ID:       staff.ID,
		Username: staff.Username,
		Token:    signed,
	}, nil
}

func (s *Service) Logout(ctx context.Context, tokenStr string) error {
	if s.revoked == nil {
		return nil
	}

	claims, err := s.tokens.Validate(tokenStr)
	if err != nil {
		// expired or garbage tokens need no revocation
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.revoked.Revoke(ctx, tokenStr, ttl); err != nil {
		log.Error().Err(err).Msg("failed to revoke token on logout")
		return apperrors.Internal(err)
	}
	return nil
}

func (s *Service) Validate(ctx context.Context, tokenStr string) (*token.StaffClaims, error) {
	claims, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, tokenStr)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if revoked {
			return nil, apperrors.Unauthorized("token revoked", nil)
		}
	}

	return claims, nil
}

// TokenExpiry exposes the configured token lifetime for cookie max-age
func (s *Service) TokenExpiry() time.Duration {
	return s.tokens.Expiry()
}
