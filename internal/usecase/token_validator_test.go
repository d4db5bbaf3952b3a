//go:build unit

package usecase_test

import (
	"testing"
	"time"

	"hotel-booking/internal/domain/guest"
	"hotel-booking/internal/pkg/jwt"
	"hotel-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenValidator(t *testing.T) {
	svc := jwt.NewService("secret", "", time.Hour)
	validator := usecase.NewTokenValidator(svc)
	userID := uuid.New()

	t.Run("success: claims become the actor", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, "guest@example.com", guest.RoleStaff)
		require.NoError(t, err)

		actor, err := validator.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, actor.ID)
		assert.Equal(t, guest.RoleStaff, actor.Role)
		assert.Equal(t, "guest@example.com", actor.Contact)
	})

	t.Run("error: unknown role", func(t *testing.T) {
		token, err := svc.GenerateToken(userID, "", guest.Role("owner"))
		require.NoError(t, err)

		_, err = validator.ValidateToken(token)
		assert.ErrorIs(t, err, guest.ErrInvalidRole)
	})

	t.Run("error: garbage token", func(t *testing.T) {
		_, err := validator.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
