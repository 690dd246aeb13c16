package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"storefront/internal/domain/inventory"
	"storefront/internal/domain/order"
	"storefront/internal/domain/user"
	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrVariantNotFound         = errs.New("variant not found")
	ErrOutOfStock              = errs.New("out of stock")
	ErrOrderNotFound           = errs.New("order not found")
	ErrOrderAccessDenied       = errs.New("order access denied")
	ErrOrderNotCancellable     = errs.New("order not cancellable")
	ErrInvalidTransition       = errs.New("invalid status transition")
	ErrTrackingRequired        = errs.New("tracking number required")
	ErrOrderConflict           = errs.New("order was modified concurrently")
	ErrDuplicateOrder          = errs.New("duplicate order request")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const (
	placeOrderEndpoint = "POST /api/orders"
	idempotencyTTL     = 24 * time.Hour
)

type PlaceOrderResult struct {
	Order      *queries.OrderView
	IsReplayed bool
}

type OrderCommands interface {
	PlaceOrder(ctx context.Context, req reqdto.PlaceOrderRequest, userID uuid.UUID, idempotencyKey uuid.UUID) (*PlaceOrderResult, error)
	CancelOrder(ctx context.Context, actorID uuid.UUID, actorRole user.Role, orderID uuid.UUID) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, req reqdto.UpdateOrderStatusRequest) error
}

type orderCommandsImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
	clock        clock.Clock
}

func NewOrderCommands(uow shared.UnitOfWork, orderQueries queries.OrderQueries, clk clock.Clock) OrderCommands {
	return &orderCommandsImpl{
		uow:          uow,
		orderQueries: orderQueries,
		clock:        clk,
	}
}

// PlaceOrder reserves stock for every line and creates the order in one
// transaction, so a short line rolls back the whole batch. Replays identified
// by the idempotency key return the original order without touching stock.
func (c *orderCommandsImpl) PlaceOrder(
	ctx context.Context,
	req reqdto.PlaceOrderRequest,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*PlaceOrderResult, error) {
	batch, err := req.ToBatch()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	email, err := order.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}
	address, err := order.NewShippingAddress(req.ShippingAddress)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	requestHash := calculateRequestHash(req)
	expiresAt := c.clock.Now().Add(idempotencyTTL)

	var (
		resultID uuid.UUID
		replayed bool
	)
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed, err := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, userID, placeOrderEndpoint, requestHash, expiresAt)
		if err != nil {
			return errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		if !claimed {
			id, isReplay, err := c.resolveExistingKey(ctx, tx, idempotencyKey, userID, requestHash)
			if err != nil {
				return err
			}
			resultID = id
			replayed = isReplay
			return nil
		}

		orderID, err := c.reserveAndCreate(ctx, tx, req, batch, userID, email, address)
		if err != nil {
			return err
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, userID, calculateIDHash(orderID), orderID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		resultID = orderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Read-after-write: serve the full view from the read store
	view, err := c.orderQueries.GetByIDSystem(ctx, resultID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return &PlaceOrderResult{Order: view, IsReplayed: replayed}, nil
}

func (c *orderCommandsImpl) resolveExistingKey(
	ctx context.Context,
	tx shared.Tx,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
) (uuid.UUID, bool, error) {
	record, err := tx.Reads().IdempotencyByKey(ctx, idempotencyKey, userID)
	if err != nil {
		return uuid.Nil, false, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if record.RequestHash != requestHash {
		return uuid.Nil, false, ErrDuplicateOrder
	}

	switch record.Status {
	case "completed":
		if record.ResultOrderID == nil {
			return uuid.Nil, false, errs.New("completed request missing result order ID")
		}
		return *record.ResultOrderID, true, nil
	case "processing":
		return uuid.Nil, false, ErrIdempotencyInProgress
	default:
		return uuid.Nil, false, errs.New("invalid idempotency key status")
	}
}

func (c *orderCommandsImpl) reserveAndCreate(
	ctx context.Context,
	tx shared.Tx,
	req reqdto.PlaceOrderRequest,
	batch []inventory.Item,
	userID uuid.UUID,
	email order.Email,
	address order.ShippingAddress,
) (uuid.UUID, error) {
	// Report every short line before touching any counter
	checks, err := tx.Inventory().CheckAvailability(ctx, tx.DB(), batch)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return uuid.Nil, ErrVariantNotFound
		}
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if short := inventory.Short(checks); len(short) > 0 {
		return uuid.Nil, errs.Mark(&OutOfStockError{Shortages: short}, ErrOutOfStock)
	}

	snapshots, err := c.snapshotVariants(ctx, tx, batch)
	if err != nil {
		return uuid.Nil, err
	}

	if err := tx.Inventory().Reserve(ctx, tx.DB(), batch); err != nil {
		return uuid.Nil, classifyReserveError(err)
	}

	items := make([]order.Item, 0, len(batch))
	for _, line := range batch {
		snap := snapshots[line.VariantID]
		item, err := order.NewItem(snap.ProductID, line.VariantID, line.Quantity, snap.PriceCents)
		if err != nil {
			return uuid.Nil, errs.Mark(err, ErrDomainValidation)
		}
		items = append(items, item)
	}

	entity, err := order.NewOrder(c.clock, &userID, email, items, req.ShippingCents, address, req.GetPaymentRef())
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	orderID, err := tx.Orders().Create(ctx, tx.DB(), entity)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := c.enqueueOrderNotification(ctx, tx, orderID, email.String(), "order_created"); err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return orderID, nil
}

func (c *orderCommandsImpl) snapshotVariants(
	ctx context.Context,
	tx shared.Tx,
	batch []inventory.Item,
) (map[uuid.UUID]shared.VariantSnapshot, error) {
	ids := make([]uuid.UUID, 0, len(batch))
	for _, item := range batch {
		ids = append(ids, item.VariantID)
	}

	rows, err := tx.Reads().VariantsByIDs(ctx, ids)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	byID := make(map[uuid.UUID]shared.VariantSnapshot, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	for _, item := range batch {
		if _, ok := byID[item.VariantID]; !ok {
			return nil, ErrVariantNotFound
		}
	}
	return byID, nil
}

// CancelOrder releases the reserved stock and flips the order to CANCELLED in
// one transaction, guarded by the order's version.
func (c *orderCommandsImpl) CancelOrder(ctx context.Context, actorID uuid.UUID, actorRole user.Role, orderID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if actorRole != user.RoleAdmin {
			if snap.UserID == nil || *snap.UserID != actorID {
				return ErrOrderAccessDenied
			}
		}

		status, err := order.NewStatus(snap.Status)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !status.IsCancellable() {
			return ErrOrderNotCancellable
		}

		return c.cancelInTx(ctx, tx, snap)
	})
}

// cancelInTx returns the order's reserved units to the pool and records the
// terminal status. The version guard rejects a concurrent status change.
func (c *orderCommandsImpl) cancelInTx(ctx context.Context, tx shared.Tx, snap *shared.OrderSnapshot) error {
	items := make([]inventory.Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, inventory.Item{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	batch, err := inventory.NewBatch(items)
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	if err := tx.Inventory().Release(ctx, tx.DB(), batch); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	err = tx.Orders().UpdateStatus(ctx, tx.DB(), shared.UpdateOrderStatusParams{
		ID:              snap.ID,
		Status:          order.StatusCancelled,
		ExpectedVersion: snap.Version,
	})
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return ErrOrderConflict
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return c.enqueueOrderNotification(ctx, tx, snap.ID, snap.Email, "order_cancelled")
}

// UpdateStatus applies an admin status transition. SHIPPED requires a tracking
// number; CANCELLED goes through the release path like customer cancellation.
func (c *orderCommandsImpl) UpdateStatus(ctx context.Context, orderID uuid.UUID, req reqdto.UpdateOrderStatusRequest) error {
	next, err := order.NewStatus(req.Status)
	if err != nil {
		return errs.Mark(err, ErrDomainValidation)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().OrderByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrOrderNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		current, err := order.NewStatus(snap.Status)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !current.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		if next == order.StatusCancelled {
			return c.cancelInTx(ctx, tx, snap)
		}

		params := shared.UpdateOrderStatusParams{
			ID:              snap.ID,
			Status:          next,
			ExpectedVersion: snap.Version,
		}
		if next == order.StatusShipped {
			number := req.GetTrackingNumber()
			if number == nil {
				return ErrTrackingRequired
			}
			now := c.clock.Now()
			params.TrackingNumber = number
			params.TrackingURL = req.TrackingURL
			params.ShippedAt = &now
		}

		if err := tx.Orders().UpdateStatus(ctx, tx.DB(), params); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return ErrOrderConflict
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if next == order.StatusShipped || next == order.StatusDelivered {
			topic := "order_shipped"
			if next == order.StatusDelivered {
				topic = "order_delivered"
			}
			if err := c.enqueueOrderNotification(ctx, tx, snap.ID, snap.Email, topic); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
}

func (c *orderCommandsImpl) enqueueOrderNotification(ctx context.Context, tx shared.Tx, orderID uuid.UUID, email, topic string) error {
	payload, err := json.Marshal(map[string]any{
		"order_id": orderID,
		"email":    email,
		"type":     topic,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", topic, payload, c.clock.Now())
}

func classifyReserveError(err error) error {
	if infra.IsKind(err, infra.KindInsufficientStock) {
		var short *shared.InsufficientStockError
		if errors.As(err, &short) {
			return errs.Mark(&OutOfStockError{
				Shortages: []inventory.Check{inventory.NewCheck(short.VariantID, short.Requested, short.Available)},
			}, ErrOutOfStock)
		}
		return errs.Mark(err, ErrOutOfStock)
	}
	if infra.IsKind(err, infra.KindNotFound) {
		return ErrVariantNotFound
	}
	return errs.Mark(err, ErrDatabaseOperationFailed)
}

func calculateRequestHash(req reqdto.PlaceOrderRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
