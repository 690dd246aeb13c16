package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	return r.findByID(ctx, r.db, id)
}

func (r *OrderReadStore) findByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view           queries.OrderView
		userID         pgtype.UUID
		paymentRef     pgtype.Text
		trackingNumber pgtype.Text
		trackingURL    pgtype.Text
		shippedAt      pgtype.Timestamptz
		createdAt      pgtype.Timestamptz
		updatedAt      pgtype.Timestamptz
	)

	err := dbtx.QueryRow(ctx, `
		SELECT id, user_id, email, status,
			subtotal_cents, shipping_cents, total_cents,
			shipping_address, payment_ref, tracking_number, tracking_url,
			shipped_at, version, created_at, updated_at
		FROM orders
		WHERE id = $1`, id,
	).Scan(
		&view.ID, &userID, &view.Email, &view.Status,
		&view.SubtotalCents, &view.ShippingCents, &view.TotalCents,
		&view.ShippingAddress, &paymentRef, &trackingNumber, &trackingURL,
		&shippedAt, &view.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}

	view.UserID = pgconv.UUIDPtrFromPgtype(userID)
	view.PaymentRef = pgconv.StringPtrFromPgtype(paymentRef)
	view.TrackingNumber = pgconv.StringPtrFromPgtype(trackingNumber)
	view.TrackingURL = pgconv.StringPtrFromPgtype(trackingURL)
	view.ShippedAt = pgconv.TimePtrFromPgtype(shippedAt)
	view.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	view.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	items, err := r.findItems(ctx, dbtx, id)
	if err != nil {
		return nil, err
	}
	view.Items = items

	return &view, nil
}

func (r *OrderReadStore) findItems(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) ([]queries.OrderItemView, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT oi.product_id, p.title, oi.variant_id, v.size, oi.quantity, oi.price_cents
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN variants v ON v.id = oi.variant_id
		WHERE oi.order_id = $1
		ORDER BY oi.id`, orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order items", err)
	}
	defer rows.Close()

	var items []queries.OrderItemView
	for rows.Next() {
		var item queries.OrderItemView
		if err := rows.Scan(&item.ProductID, &item.ProductTitle, &item.VariantID, &item.VariantSize, &item.Quantity, &item.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}

	return items, nil
}

func (r *OrderReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.status, o.total_cents,
			(SELECT count(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
			o.created_at
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC`, userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find orders by user", err)
	}
	defer rows.Close()

	var result []*queries.OrderListItem
	for rows.Next() {
		var (
			item      queries.OrderListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.Status, &item.TotalCents, &item.ItemCount, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order list item", err)
		}
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order list", err)
	}

	return result, nil
}

// FindSnapshotByID reads the command-side view of an order, items and version
// included, for in-transaction decisions.
func (r *OrderReadStore) FindSnapshotByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.OrderSnapshot, error) {
	var (
		snap           shared.OrderSnapshot
		userID         pgtype.UUID
		trackingNumber pgtype.Text
	)

	err := dbtx.QueryRow(ctx, `
		SELECT id, user_id, email, status, tracking_number, version
		FROM orders
		WHERE id = $1`, id,
	).Scan(&snap.ID, &userID, &snap.Email, &snap.Status, &trackingNumber, &snap.Version)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order snapshot", err)
	}
	snap.UserID = pgconv.UUIDPtrFromPgtype(userID)
	snap.TrackingNumber = pgconv.StringPtrFromPgtype(trackingNumber)

	rows, err := dbtx.Query(ctx, `
		SELECT product_id, variant_id, quantity, price_cents
		FROM order_items
		WHERE order_id = $1`, id,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order item snapshots", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item shared.OrderItemSnapshot
		if err := rows.Scan(&item.ProductID, &item.VariantID, &item.Quantity, &item.PriceCents); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item snapshot", err)
		}
		snap.Items = append(snap.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order item snapshots", err)
	}

	return &snap, nil
}
