package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/order"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, dbtx db.DBTX, o *order.Order) (uuid.UUID, error) {
	_, err := dbtx.Exec(ctx, `
		INSERT INTO orders (
			id, user_id, email, status,
			subtotal_cents, shipping_cents, total_cents,
			shipping_address, payment_ref, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID(),
		pgconv.UUIDPtrToPgtype(o.UserID()),
		o.Email().String(),
		o.Status().String(),
		o.SubtotalCents(),
		o.ShippingCents(),
		o.TotalCents(),
		[]byte(o.ShippingAddress().Raw()),
		pgconv.StringPtrToPgtype(o.PaymentRef()),
		o.Version(),
		o.CreatedAt(),
		o.UpdatedAt(),
	)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	for _, item := range o.Items() {
		_, err := dbtx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), o.ID(), item.ProductID(), item.VariantID(), item.Quantity(), item.PriceCents(),
		)
		if err != nil {
			return uuid.Nil, infra.WrapRepoErr("failed to create order item", err)
		}
	}

	return o.ID(), nil
}

// UpdateStatus is a compare-and-swap on (id, version); a zero row count means
// either a concurrent update won or the order is gone, and the two are told
// apart with a follow-up existence probe.
func (r *OrderRepository) UpdateStatus(ctx context.Context, dbtx db.DBTX, params shared.UpdateOrderStatusParams) error {
	tag, err := dbtx.Exec(ctx, `
		UPDATE orders SET
			status = $3,
			tracking_number = COALESCE($4, tracking_number),
			tracking_url = COALESCE($5, tracking_url),
			shipped_at = COALESCE($6, shipped_at),
			version = version + 1,
			updated_at = now()
		WHERE id = $1 AND version = $2`,
		params.ID,
		params.ExpectedVersion,
		params.Status.String(),
		pgconv.StringPtrToPgtype(params.TrackingNumber),
		pgconv.StringPtrToPgtype(params.TrackingURL),
		pgconv.TimePtrToPgtype(params.ShippedAt),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		probeErr := dbtx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, params.ID).Scan(&exists)
		if probeErr != nil {
			return infra.WrapRepoErr("failed to probe order after stale update", probeErr)
		}
		if !exists {
			return infra.WrapRepoErr("order not found: "+params.ID.String(), nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("order was modified concurrently", nil, infra.KindConflict)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
