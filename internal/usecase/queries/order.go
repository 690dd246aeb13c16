package queries

import (
	"context"

	"storefront/internal/domain/user"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errs.New("order not found")
	ErrOrderAccessDenied = errs.New("order access denied")
)

type OrderQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*OrderView, error)
	// GetByIDSystem skips the ownership check for internal read-after-write paths
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*OrderListItem, error)
}

type OrderViewRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	repo OrderViewRepo
}

func NewOrderQueries(repo OrderViewRepo) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole user.Role, id uuid.UUID) (*OrderView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorRole != user.RoleAdmin {
		if view.UserID == nil || *view.UserID != actorID {
			return nil, ErrOrderAccessDenied
		}
	}

	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*OrderListItem, error) {
	return q.repo.FindByUserID(ctx, userID)
}
