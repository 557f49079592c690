package services

import (
	"context"
	"errors"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
	"github.com/hosteldesk/complaints-backend/internal/core/ports"
)

// AuthService implements staff authentication. Token issuance lives in the
// HTTP adapter; this service only verifies credentials and creates accounts.
type AuthService struct {
	userRepo ports.UserRepository
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo ports.UserRepository) ports.AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register creates a new staff account.
func (s *AuthService) Register(ctx context.Context, params domain.UserRegistrationParams) (*domain.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, params.Email); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := domain.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		FullName:     params.FullName,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         domain.ConnectionRole(params.Role),
		Hostel:       params.Hostel,
		IsActive:     true,
	}

	return s.userRepo.Create(ctx, user)
}

// Login verifies credentials and returns the account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive || !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}
