package inventory

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrEmptyBatch       = errors.New("item batch is empty")
	ErrInvalidVariantID = errors.New("invalid variant id")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrDuplicateVariant = errors.New("duplicate variant in batch")
	ErrNegativeStock    = errors.New("stock cannot be negative")
)

// Item is a (variant, quantity) pair used as input to availability checks,
// reservations and releases. It is never persisted.
type Item struct {
	VariantID uuid.UUID
	Quantity  int32
}

func NewItem(variantID uuid.UUID, quantity int32) (Item, error) {
	if variantID == uuid.Nil {
		return Item{}, ErrInvalidVariantID
	}
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{VariantID: variantID, Quantity: quantity}, nil
}

// NewBatch validates a whole request batch. Quantities for the same variant are
// merged so a single conditional update covers them.
func NewBatch(items []Item) ([]Item, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	merged := make([]Item, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		validated, err := NewItem(it.VariantID, it.Quantity)
		if err != nil {
			return nil, err
		}
		if i, ok := index[validated.VariantID]; ok {
			merged[i].Quantity += validated.Quantity
			continue
		}
		index[validated.VariantID] = len(merged)
		merged = append(merged, validated)
	}
	return merged, nil
}

// Check reports the availability of one requested item at read time.
type Check struct {
	VariantID   uuid.UUID
	Requested   int32
	Available   int32
	IsAvailable bool
}

func NewCheck(variantID uuid.UUID, requested, available int32) Check {
	return Check{
		VariantID:   variantID,
		Requested:   requested,
		Available:   available,
		IsAvailable: requested <= available,
	}
}

// Short filters a check result down to the items that cannot be satisfied.
func Short(checks []Check) []Check {
	var short []Check
	for _, c := range checks {
		if !c.IsAvailable {
			short = append(short, c)
		}
	}
	return short
}

func ValidateStockLevel(stock int32) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
