//go:build unit

package queries_test

import (
	"context"
	"testing"

	"storefront/internal/infra"
	"storefront/internal/usecase/queries"
	queriesmock "storefront/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUserQueries_GetCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("active user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		store := queriesmock.NewMockUserReadStore(ctrl)
		q := queries.NewUserQueries(store)

		view := &queries.AuthorizedUserView{
			ID:       uuid.New(),
			Email:    "buyer@example.com",
			Role:     "customer",
			IsActive: true,
		}
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		actual, err := q.GetCurrentUser(ctx, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view, actual)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		store := queriesmock.NewMockUserReadStore(ctrl)
		q := queries.NewUserQueries(store)

		id := uuid.New()
		store.EXPECT().FindByID(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound))

		_, err := q.GetCurrentUser(ctx, id)
		require.ErrorIs(t, err, queries.ErrUserNotFound)
	})

	t.Run("deactivated user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		store := queriesmock.NewMockUserReadStore(ctrl)
		q := queries.NewUserQueries(store)

		view := &queries.AuthorizedUserView{
			ID:       uuid.New(),
			Email:    "dormant@example.com",
			Role:     "customer",
			IsActive: false,
		}
		store.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		_, err := q.GetCurrentUser(ctx, view.ID)
		require.ErrorIs(t, err, queries.ErrUserInactive)
	})
}
