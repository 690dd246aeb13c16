//go:build unit

package queries_test

import (
	"context"
	"testing"

	"storefront/internal/domain/user"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/queries"
	"storefront/tests/common/builder"
	queriesmock "storefront/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestOrderQueries_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("owner can read their own order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := queriesmock.NewMockOrderViewRepo(ctrl)
		q := queries.NewOrderQueries(repo)

		view := builder.NewOrderBuilder().BuildViewQuery()
		repo.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		actual, err := q.GetByID(ctx, *view.UserID, user.RoleCustomer, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view, actual)
	})

	t.Run("admin can read anyone's order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := queriesmock.NewMockOrderViewRepo(ctrl)
		q := queries.NewOrderQueries(repo)

		view := builder.NewOrderBuilder().BuildViewQuery()
		repo.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		actual, err := q.GetByID(ctx, uuid.New(), user.RoleAdmin, view.ID)
		require.NoError(t, err)
		assert.Equal(t, view, actual)
	})

	t.Run("customer cannot read someone else's order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := queriesmock.NewMockOrderViewRepo(ctrl)
		q := queries.NewOrderQueries(repo)

		view := builder.NewOrderBuilder().BuildViewQuery()
		repo.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		_, err := q.GetByID(ctx, uuid.New(), user.RoleCustomer, view.ID)
		require.ErrorIs(t, err, queries.ErrOrderAccessDenied)
	})

	t.Run("guest order without an owner is admin-only", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := queriesmock.NewMockOrderViewRepo(ctrl)
		q := queries.NewOrderQueries(repo)

		view := builder.NewOrderBuilder().BuildViewQuery()
		view.UserID = nil
		repo.EXPECT().FindByID(gomock.Any(), view.ID).Return(view, nil)

		_, err := q.GetByID(ctx, uuid.New(), user.RoleCustomer, view.ID)
		require.ErrorIs(t, err, queries.ErrOrderAccessDenied)
	})

	t.Run("unknown order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := queriesmock.NewMockOrderViewRepo(ctrl)
		q := queries.NewOrderQueries(repo)

		id := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound))

		_, err := q.GetByID(ctx, uuid.New(), user.RoleAdmin, id)
		require.ErrorIs(t, err, queries.ErrOrderNotFound)
	})

	t.Run("repository failure passes through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := queriesmock.NewMockOrderViewRepo(ctrl)
		q := queries.NewOrderQueries(repo)

		id := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), id).
			Return(nil, errs.New("connection reset"))

		_, err := q.GetByID(ctx, uuid.New(), user.RoleAdmin, id)
		require.Error(t, err)
		require.NotErrorIs(t, err, queries.ErrOrderNotFound)
	})
}

func TestOrderQueries_ListByUser(t *testing.T) {
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := queriesmock.NewMockOrderViewRepo(ctrl)
	q := queries.NewOrderQueries(repo)

	userID := uuid.New()
	items := []*queries.OrderListItem{
		builder.NewOrderBuilder().BuildListItem(),
		builder.NewOrderBuilder().BuildListItem(),
	}
	repo.EXPECT().FindByUserID(gomock.Any(), userID).Return(items, nil)

	actual, err := q.ListByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, items, actual)
}
