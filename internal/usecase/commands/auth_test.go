//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/jwt"
	"storefront/internal/pkg/password"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"
	queriesmock "storefront/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newAuthCommands(t *testing.T, ctrl *gomock.Controller) (*queriesmock.MockUserReadStore, *jwt.Service, commands.AuthCommands) {
	t.Helper()
	readStore := queriesmock.NewMockUserReadStore(ctrl)
	jwtService := jwt.NewService("test-secret", time.Hour)
	return readStore, jwtService, commands.NewAuthCommands(readStore, jwtService)
}

func TestAuthCommands_Login(t *testing.T) {
	ctx := context.Background()

	activeUser := func() *queries.AuthorizedUserView {
		return &queries.AuthorizedUserView{
			ID:       uuid.New(),
			Email:    "buyer@example.com",
			Role:     "customer",
			IsActive: true,
		}
	}

	t.Run("valid credentials return a signed token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		readStore, jwtService, cmd := newAuthCommands(t, ctrl)

		view := activeUser()
		hash, err := password.HashPassword("password123")
		require.NoError(t, err)

		readStore.EXPECT().FindByEmail(gomock.Any(), view.Email).Return(view, hash, nil)

		result, err := cmd.Login(ctx, reqdto.LoginRequest{Email: view.Email, Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, view.ID, result.UserID)

		claims, err := jwtService.ValidateToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, view.ID, claims.UserID)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		readStore, _, cmd := newAuthCommands(t, ctrl)

		view := activeUser()
		hash, err := password.HashPassword("password123")
		require.NoError(t, err)

		readStore.EXPECT().FindByEmail(gomock.Any(), view.Email).Return(view, hash, nil)

		_, err = cmd.Login(ctx, reqdto.LoginRequest{Email: view.Email, Password: "wrong"})
		require.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("unknown email maps to the same error as a bad password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		readStore, _, cmd := newAuthCommands(t, ctrl)

		readStore.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").
			Return(nil, "", errs.New("no rows"))

		_, err := cmd.Login(ctx, reqdto.LoginRequest{Email: "ghost@example.com", Password: "password123"})
		require.ErrorIs(t, err, commands.ErrInvalidCredentials)
	})

	t.Run("inactive account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		readStore, _, cmd := newAuthCommands(t, ctrl)

		view := activeUser()
		view.IsActive = false
		hash, err := password.HashPassword("password123")
		require.NoError(t, err)

		readStore.EXPECT().FindByEmail(gomock.Any(), view.Email).Return(view, hash, nil)

		_, err = cmd.Login(ctx, reqdto.LoginRequest{Email: view.Email, Password: "password123"})
		require.ErrorIs(t, err, commands.ErrUserInactive)
	})

	t.Run("unknown role from storage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		readStore, _, cmd := newAuthCommands(t, ctrl)

		view := activeUser()
		view.Role = "superuser"
		hash, err := password.HashPassword("password123")
		require.NoError(t, err)

		readStore.EXPECT().FindByEmail(gomock.Any(), view.Email).Return(view, hash, nil)

		_, err = cmd.Login(ctx, reqdto.LoginRequest{Email: view.Email, Password: "password123"})
		require.ErrorIs(t, err, commands.ErrAuthenticationFailed)
	})
}
