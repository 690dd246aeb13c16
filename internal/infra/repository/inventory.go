package repository

import (
	"context"

	"storefront/internal/domain/inventory"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

// InventoryRepository owns the stock counter on variants. Reserve decrements
// through a conditional UPDATE re-checked against the live row, so two
// transactions racing for the last unit serialize on the row lock and the loser
// sees zero affected rows. All-or-nothing across the batch comes from running
// inside the caller's transaction: any failed line rolls back every line.
type InventoryRepository struct{}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

func (r *InventoryRepository) CheckAvailability(ctx context.Context, dbtx db.DBTX, items []inventory.Item) ([]inventory.Check, error) {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.VariantID
	}

	rows, err := dbtx.Query(ctx, `SELECT id, stock FROM variants WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read variant stock", err)
	}
	defer rows.Close()

	stockByID := make(map[uuid.UUID]int32, len(items))
	for rows.Next() {
		var id uuid.UUID
		var stock int32
		if err := rows.Scan(&id, &stock); err != nil {
			return nil, infra.WrapRepoErr("failed to scan variant stock", err)
		}
		stockByID[id] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate variant stock", err)
	}

	checks := make([]inventory.Check, len(items))
	for i, item := range items {
		stock, ok := stockByID[item.VariantID]
		if !ok {
			// A single unknown variant aborts the whole check, no partial result.
			return nil, infra.WrapRepoErr("variant not found: "+item.VariantID.String(), nil, infra.KindNotFound)
		}
		checks[i] = inventory.NewCheck(item.VariantID, item.Quantity, stock)
	}

	return checks, nil
}

func (r *InventoryRepository) Reserve(ctx context.Context, dbtx db.DBTX, items []inventory.Item) error {
	for _, item := range items {
		tag, err := dbtx.Exec(ctx,
			`UPDATE variants SET stock = stock - $2, updated_at = now() WHERE id = $1 AND stock >= $2`,
			item.VariantID, item.Quantity)
		if err != nil {
			return infra.WrapRepoErr("failed to reserve stock", err)
		}
		if tag.RowsAffected() == 0 {
			return r.reserveFailure(ctx, dbtx, item)
		}
	}
	return nil
}

// reserveFailure distinguishes a missing variant from a short one and attaches
// the live stock level for the caller's error message.
func (r *InventoryRepository) reserveFailure(ctx context.Context, dbtx db.DBTX, item inventory.Item) error {
	var available int32
	err := dbtx.QueryRow(ctx, `SELECT stock FROM variants WHERE id = $1`, item.VariantID).Scan(&available)
	if err != nil {
		if isNoRows(err) {
			return infra.WrapRepoErr("variant not found: "+item.VariantID.String(), nil, infra.KindNotFound)
		}
		return infra.WrapRepoErr("failed to read stock after reserve failure", err)
	}

	stockErr := &shared.InsufficientStockError{
		VariantID: item.VariantID,
		Requested: item.Quantity,
		Available: available,
	}
	return infra.WrapRepoErr("reservation rejected", stockErr, infra.KindInsufficientStock)
}

func (r *InventoryRepository) Release(ctx context.Context, dbtx db.DBTX, items []inventory.Item) error {
	for _, item := range items {
		tag, err := dbtx.Exec(ctx,
			`UPDATE variants SET stock = stock + $2, updated_at = now() WHERE id = $1`,
			item.VariantID, item.Quantity)
		if err != nil {
			return infra.WrapRepoErr("failed to release stock", err)
		}
		if tag.RowsAffected() == 0 {
			return infra.WrapRepoErr("variant not found: "+item.VariantID.String(), nil, infra.KindNotFound)
		}
	}
	return nil
}

func (r *InventoryRepository) SetStock(ctx context.Context, dbtx db.DBTX, variantID uuid.UUID, stock int32) error {
	tag, err := dbtx.Exec(ctx,
		`UPDATE variants SET stock = $2, updated_at = now() WHERE id = $1`,
		variantID, stock)
	if err != nil {
		return infra.WrapRepoErr("failed to set stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("variant not found: "+variantID.String(), nil, infra.KindNotFound)
	}
	return nil
}
