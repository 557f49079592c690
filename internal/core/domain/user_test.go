package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hosteldesk/complaints-backend/internal/core/domain"
	apperrors "github.com/hosteldesk/complaints-backend/internal/core/errors"
)

func validRegistration() domain.UserRegistrationParams {
	return domain.UserRegistrationParams{
		FullName: "Asha Verma",
		Email:    "asha@example.com",
		Password: "correct-horse-battery",
		Role:     "porter",
		Hostel:   "north-wing",
	}
}

func TestUserRegistrationParams_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		params := validRegistration()
		assert.NoError(t, params.Validate())
	})

	t.Run("admin may be unscoped", func(t *testing.T) {
		params := validRegistration()
		params.Role = "admin"
		params.Hostel = ""
		assert.NoError(t, params.Validate())
	})

	tests := []struct {
		name   string
		mutate func(*domain.UserRegistrationParams)
		field  string
	}{
		{"empty name", func(p *domain.UserRegistrationParams) { p.FullName = "" }, "fullName"},
		{"name too long", func(p *domain.UserRegistrationParams) { p.FullName = strings.Repeat("a", 256) }, "fullName"},
		{"empty email", func(p *domain.UserRegistrationParams) { p.Email = "" }, "email"},
		{"bad email", func(p *domain.UserRegistrationParams) { p.Email = "not-an-email" }, "email"},
		{"short password", func(p *domain.UserRegistrationParams) { p.Password = "short" }, "password"},
		{"unknown role", func(p *domain.UserRegistrationParams) { p.Role = "student" }, "role"},
		{"porter without hostel", func(p *domain.UserRegistrationParams) { p.Hostel = "" }, "hostel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validRegistration()
			tt.mutate(&params)

			err := params.Validate()

			var valErrs *apperrors.ValidationErrors
			require.ErrorAs(t, err, &valErrs)
			assert.Contains(t, valErrs.Errors, tt.field)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := domain.HashPassword("correct-horse-battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-battery", hash)

	user := &domain.User{PasswordHash: hash}
	assert.True(t, user.CheckPassword("correct-horse-battery"))
	assert.False(t, user.CheckPassword("wrong"))
}
