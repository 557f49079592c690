package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
	"github.com/hosteldesk/complaints-backend/internal/core/mocks"
	"github.com/hosteldesk/complaints-backend/internal/core/services"
)

func registrationParams() domain.UserRegistrationParams {
	return domain.UserRegistrationParams{
		FullName: "Asha Verma",
		Email:    "asha@example.com",
		Password: "correct-horse-battery",
		Role:     "porter",
		Hostel:   "north-wing",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := registrationParams()
		mockRepo.On("GetByEmail", ctx, params.Email).Return(nil, apperrors.ErrUserNotFound)
		mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == params.Email &&
				u.Role == domain.RolePorter &&
				u.IsActive &&
				u.PasswordHash != "" &&
				u.PasswordHash != params.Password
		})).Return(&domain.User{Email: params.Email, Role: domain.RolePorter, IsActive: true}, nil)

		user, err := svc.Register(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, params.Email, user.Email)
		mockRepo.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := registrationParams()
		mockRepo.On("GetByEmail", ctx, params.Email).
			Return(&domain.User{Email: params.Email}, nil)

		user, err := svc.Register(ctx, params)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("validation errors", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := registrationParams()
		params.Password = "short"
		params.Role = "student"

		user, err := svc.Register(ctx, params)

		assert.Nil(t, user)
		var valErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &valErrs)
		mockRepo.AssertNotCalled(t, "GetByEmail")
	})

	t.Run("porter without a hostel", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		params := registrationParams()
		params.Hostel = ""

		_, err := svc.Register(ctx, params)

		var valErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &valErrs)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := domain.HashPassword("correct-horse-battery")
	require.NoError(t, err)

	activeUser := &domain.User{
		Email:        "asha@example.com",
		PasswordHash: hash,
		Role:         domain.RolePorter,
		Hostel:       "north-wing",
		IsActive:     true,
	}

	t.Run("success", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		mockRepo.On("GetByEmail", ctx, activeUser.Email).Return(activeUser, nil)

		user, err := svc.Login(ctx, activeUser.Email, "correct-horse-battery")

		require.NoError(t, err)
		assert.Equal(t, activeUser.Email, user.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		mockRepo.On("GetByEmail", ctx, activeUser.Email).Return(activeUser, nil)

		_, err := svc.Login(ctx, activeUser.Email, "wrong")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to invalid credentials", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		mockRepo.On("GetByEmail", ctx, "nobody@example.com").
			Return(nil, apperrors.ErrUserNotFound)

		_, err := svc.Login(ctx, "nobody@example.com", "whatever")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("inactive account is rejected", func(t *testing.T) {
		mockRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockRepo)

		inactive := *activeUser
		inactive.IsActive = false
		mockRepo.On("GetByEmail", ctx, inactive.Email).Return(&inactive, nil)

		_, err := svc.Login(ctx, inactive.Email, "correct-horse-battery")

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}
