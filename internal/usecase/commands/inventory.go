package commands

import (
	"context"

	"storefront/internal/domain/inventory"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

type InventoryCommands interface {
	SetStock(ctx context.Context, variantID uuid.UUID, stock int32) error
	CheckAvailability(ctx context.Context, items []inventory.Item) ([]inventory.Check, error)
}

type inventoryCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewInventoryCommands(uow shared.UnitOfWork) InventoryCommands {
	return &inventoryCommandsImpl{uow: uow}
}

// SetStock is the admin restock/correction path. It overwrites the counter and
// does not interact with any reservation.
func (c *inventoryCommandsImpl) SetStock(ctx context.Context, variantID uuid.UUID, stock int32) error {
	if variantID == uuid.Nil {
		return errs.Mark(inventory.ErrInvalidVariantID, ErrDomainValidation)
	}
	if err := inventory.ValidateStockLevel(stock); err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Inventory().SetStock(ctx, tx.DB(), variantID, stock); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVariantNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

// CheckAvailability is advisory: the answer can be stale by the time a
// reservation runs, which re-checks under its own transaction.
func (c *inventoryCommandsImpl) CheckAvailability(ctx context.Context, items []inventory.Item) ([]inventory.Check, error) {
	batch, err := inventory.NewBatch(items)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var checks []inventory.Check
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		result, err := tx.Inventory().CheckAvailability(ctx, tx.DB(), batch)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrVariantNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		checks = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return checks, nil
}
