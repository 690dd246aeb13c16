package shared

import (
	"context"
	"time"

	"storefront/internal/domain/inventory"
	"storefront/internal/domain/order"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Inventory() InventoryRepository
	Orders() OrderRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	VariantsByIDs(ctx context.Context, ids []uuid.UUID) ([]VariantSnapshot, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*OrderSnapshot, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

// InventoryRepository is the ledger write surface: the only code path allowed to
// move stock counters for sale-related reasons. Reserve and Release act on a
// whole batch and rely on the surrounding transaction for all-or-nothing
// semantics; a failed line aborts the batch via rollback.
type InventoryRepository interface {
	CheckAvailability(ctx context.Context, db db.DBTX, items []inventory.Item) ([]inventory.Check, error)
	Reserve(ctx context.Context, db db.DBTX, items []inventory.Item) error
	Release(ctx context.Context, db db.DBTX, items []inventory.Item) error
	SetStock(ctx context.Context, db db.DBTX, variantID uuid.UUID, stock int32) error
}

type OrderRepository interface {
	Create(ctx context.Context, db db.DBTX, o *order.Order) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, db db.DBTX, params UpdateOrderStatusParams) error
}

type UpdateOrderStatusParams struct {
	ID              uuid.UUID
	Status          order.Status
	TrackingNumber  *string
	TrackingURL     *string
	ShippedAt       *time.Time
	ExpectedVersion int32
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, db db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, db db.DBTX, key, userID uuid.UUID, resultHash string, orderID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, db db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	ListRunnable(ctx context.Context, db db.DBTX, now time.Time, limit int32) ([]NotificationJob, error)
	MarkSent(ctx context.Context, db db.DBTX, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, db db.DBTX, jobID uuid.UUID, lastError string, maxAttempts int32) error
}
