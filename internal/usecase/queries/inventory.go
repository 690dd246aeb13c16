package queries

import (
	"context"
)

// DefaultLowStockThreshold applies when the caller does not pass one.
const DefaultLowStockThreshold = 5

type InventoryQueries interface {
	LowStock(ctx context.Context, threshold int32) ([]*LowStockRow, error)
}

type LowStockReadStore interface {
	LowStock(ctx context.Context, threshold int32) ([]*LowStockRow, error)
}

type inventoryQueriesImpl struct {
	readStore LowStockReadStore
}

func NewInventoryQueries(readStore LowStockReadStore) InventoryQueries {
	return &inventoryQueriesImpl{readStore: readStore}
}

// LowStock treats a negative threshold as "not provided"; zero is a valid
// request for sold-out variants only.
func (q *inventoryQueriesImpl) LowStock(ctx context.Context, threshold int32) ([]*LowStockRow, error) {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	rows, err := q.readStore.LowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []*LowStockRow{}
	}
	return rows, nil
}
