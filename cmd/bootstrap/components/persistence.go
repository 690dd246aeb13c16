package components

import (
	"storefront/internal/infra/db"
	"storefront/internal/infra/readstore"
	"storefront/internal/infra/uow"
	"storefront/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork
		uow.NewPostgresUoW,
		// Read stores
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderViewRepo)),
		),
		fx.Annotate(
			readstore.NewInventoryReadStore,
			fx.As(new(queries.LowStockReadStore)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
