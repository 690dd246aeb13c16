package commands

import (
	"fmt"

	"storefront/internal/domain/inventory"
)

// OutOfStockError carries every short line of a rejected reservation so the
// caller can report all of them at once instead of the first failure.
type OutOfStockError struct {
	Shortages []inventory.Check
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: %d item(s) short", len(e.Shortages))
}
