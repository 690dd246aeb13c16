package readstore

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

type InventoryReadStore struct {
	db db.DBTX
}

func NewInventoryReadStore(dbtx db.DBTX) *InventoryReadStore {
	return &InventoryReadStore{db: dbtx}
}

func (r *InventoryReadStore) FindVariantsByIDs(ctx context.Context, dbtx db.DBTX, ids []uuid.UUID) ([]shared.VariantSnapshot, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT id, product_id, size, price_cents, stock
		FROM variants
		WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find variants", err)
	}
	defer rows.Close()

	var snapshots []shared.VariantSnapshot
	for rows.Next() {
		var snap shared.VariantSnapshot
		if err := rows.Scan(&snap.ID, &snap.ProductID, &snap.Size, &snap.PriceCents, &snap.Stock); err != nil {
			return nil, infra.WrapRepoErr("failed to scan variant", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate variants", err)
	}

	return snapshots, nil
}

// LowStock lists variants at or below the threshold, lowest first, annotated
// with the parent product for the admin report.
func (r *InventoryReadStore) LowStock(ctx context.Context, threshold int32) ([]*queries.LowStockRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT v.id, p.id, p.title, p.product_type, v.size, v.stock
		FROM variants v
		JOIN products p ON p.id = v.product_id
		WHERE v.stock <= $1
		ORDER BY v.stock, p.title, v.size`, threshold,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query low stock variants", err)
	}
	defer rows.Close()

	var result []*queries.LowStockRow
	for rows.Next() {
		var row queries.LowStockRow
		if err := rows.Scan(&row.VariantID, &row.ProductID, &row.ProductTitle, &row.ProductType, &row.Size, &row.Stock); err != nil {
			return nil, infra.WrapRepoErr("failed to scan low stock row", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate low stock rows", err)
	}

	return result, nil
}
