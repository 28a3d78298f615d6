package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/platform/config"
	"github.com/swisscockpit/kmu-cockpit/internal/utils"
)

// tokenService implements the TokenSvcFacade for handling JWT and refresh tokens.
type tokenService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserRepository
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config, userRepo portsrepo.UserRepository) portssvc.TokenSvcFacade {
	return &tokenService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// Ensure tokenService implements the TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken creates a new refresh token for the given user and
// stores its hash. Only the hash is persisted; the raw token travels to the
// client once, in the cookie.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	rawRefreshToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiryTime := time.Now().Add(s.cfg.RefreshTokenExpiryDuration)

	record := portsrepo.RefreshTokenRecord{
		TokenHash: utils.HashRefreshToken(rawRefreshToken),
		UserID:    user.UserID,
		ExpiresAt: expiryTime,
	}
	if err := s.userRepo.SaveRefreshToken(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to persist refresh token")
		return "", time.Time{}, err
	}

	return rawRefreshToken, expiryTime, nil
}

// ValidateAndParseRefreshToken validates a refresh token string against the
// stored hash and returns the associated user. A used or expired token is
// deleted so it cannot be replayed.
func (s *tokenService) ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error) {
	tokenHash := utils.HashRefreshToken(refreshTokenString)

	record, err := s.userRepo.FindRefreshToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up refresh token")
		return nil, err
	}

	if record.UserID != userID {
		return nil, apperrors.ErrUnauthorized
	}

	if time.Now().After(record.ExpiresAt) {
		_ = s.userRepo.DeleteRefreshToken(ctx, tokenHash)
		return nil, apperrors.ErrUnauthorized
	}

	user, err := s.userRepo.FindUserByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	// Rotate: the presented token is single use.
	if err := s.userRepo.DeleteRefreshToken(ctx, tokenHash); err != nil {
		s.LogError(ctx, err, "Failed to rotate refresh token")
		return nil, err
	}

	return user, nil
}
