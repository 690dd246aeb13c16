package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads (CQRS separation from query views)

type VariantSnapshot struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	Size       string
	PriceCents int64
	Stock      int32
}

type OrderItemSnapshot struct {
	ProductID  uuid.UUID
	VariantID  uuid.UUID
	Quantity   int32
	PriceCents int64
}

type OrderSnapshot struct {
	ID             uuid.UUID
	UserID         *uuid.UUID
	Email          string
	Status         string
	Items          []OrderItemSnapshot
	TrackingNumber *string
	Version        int32
}

type IdempotencyRecord struct {
	Key           uuid.UUID
	UserID        uuid.UUID
	Status        string
	RequestHash   string
	ResultOrderID *uuid.UUID
	ExpiresAt     time.Time
}

type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
}

// InsufficientStockError is raised by the ledger when a reservation line cannot
// be satisfied against the live row. The whole batch rolls back with it.
type InsufficientStockError struct {
	VariantID uuid.UUID
	Requested int32
	Available int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}
