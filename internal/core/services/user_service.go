package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/swisscockpit/kmu-cockpit/internal/apperrors"
	"github.com/swisscockpit/kmu-cockpit/internal/core/domain"
	portsrepo "github.com/swisscockpit/kmu-cockpit/internal/core/ports/repositories"
	portssvc "github.com/swisscockpit/kmu-cockpit/internal/core/ports/services"
	"github.com/swisscockpit/kmu-cockpit/internal/dto"
	"github.com/swisscockpit/kmu-cockpit/internal/utils"
)

// userService implements the UserSvcFacade interface
type userService struct {
	BaseService
	userRepo portsrepo.UserRepository
}

// NewUserService creates a new user service with the provided dependencies
func NewUserService(userRepo portsrepo.UserRepository) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by ID
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by ID",
				slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find user by email")
		}
		return nil, err
	}
	return user, nil
}

// CreateUser creates a new user with a hashed password
func (s *userService) CreateUser(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if _, err := s.userRepo.FindUserByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.NewAppError(409, "email already registered", apperrors.ErrDuplicate)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, err
	}

	now := time.Now()
	userID := uuid.NewString()
	user := domain.User{
		UserID:         userID,
		Email:          req.Email,
		Name:           req.Name,
		HashedPassword: hashed,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user")
		return nil, err
	}

	s.LogInfo(ctx, "User registered",
		slog.String("user_id", user.UserID))
	return &user, nil
}

// UpdateUser updates an existing user
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID != requestingUserID {
		return nil, apperrors.ErrForbidden
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = requestingUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		s.LogError(ctx, err, "Failed to update user",
			slog.String("user_id", userID))
		return nil, err
	}
	return user, nil
}

// UpdateRefreshToken stores the hash and expiry of a user's refresh token
func (s *userService) UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash string, expiresAt time.Time) error {
	record := portsrepo.RefreshTokenRecord{
		TokenHash: refreshTokenHash,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.userRepo.SaveRefreshToken(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to save refresh token",
			slog.String("user_id", userID))
		return err
	}
	return nil
}

// ClearRefreshToken clears all refresh tokens for a user
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	if err := s.userRepo.DeleteRefreshTokensForUser(ctx, userID); err != nil {
		s.LogError(ctx, err, "Failed to clear refresh tokens",
			slog.String("user_id", userID))
		return err
	}
	return nil
}

// AuthenticateUser authenticates a user with email and password
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same error whether the email or the password is wrong
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, err
	}

	if !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	if !utils.CheckPasswordHash(password, user.HashedPassword) {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}
