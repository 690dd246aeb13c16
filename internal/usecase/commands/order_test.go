//go:build unit

package commands_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront/internal/domain/inventory"
	"storefront/internal/domain/order"
	"storefront/internal/domain/user"
	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/clock"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/shared"
	"storefront/tests/common/builder"
	queriesmock "storefront/tests/mock/queries"
	sharedmock "storefront/tests/mock/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type orderCommandsMocks struct {
	uow           *sharedmock.MockUnitOfWork
	tx            *sharedmock.MockTx
	reads         *sharedmock.MockCommandReads
	inventory     *sharedmock.MockInventoryRepository
	orders        *sharedmock.MockOrderRepository
	idempotency   *sharedmock.MockIdempotencyRepository
	notifications *sharedmock.MockNotificationRepository
	orderQueries  *queriesmock.MockOrderQueries
}

func newOrderCommandsMocks(ctrl *gomock.Controller) (*orderCommandsMocks, commands.OrderCommands) {
	m := &orderCommandsMocks{
		uow:           sharedmock.NewMockUnitOfWork(ctrl),
		tx:            sharedmock.NewMockTx(ctrl),
		reads:         sharedmock.NewMockCommandReads(ctrl),
		inventory:     sharedmock.NewMockInventoryRepository(ctrl),
		orders:        sharedmock.NewMockOrderRepository(ctrl),
		idempotency:   sharedmock.NewMockIdempotencyRepository(ctrl),
		notifications: sharedmock.NewMockNotificationRepository(ctrl),
		orderQueries:  queriesmock.NewMockOrderQueries(ctrl),
	}

	m.tx.EXPECT().Inventory().Return(m.inventory).AnyTimes()
	m.tx.EXPECT().Orders().Return(m.orders).AnyTimes()
	m.tx.EXPECT().Idempotency().Return(m.idempotency).AnyTimes()
	m.tx.EXPECT().Notifications().Return(m.notifications).AnyTimes()
	m.tx.EXPECT().Reads().Return(m.reads).AnyTimes()
	m.tx.EXPECT().DB().Return(nil).AnyTimes()

	m.uow.EXPECT().Within(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, shared.Tx) error) error {
			return fn(ctx, m.tx)
		},
	).AnyTimes()

	cmd := commands.NewOrderCommands(m.uow, m.orderQueries, clock.NewMockClock(fixedNow))
	return m, cmd
}

func requestHash(t *testing.T, req reqdto.PlaceOrderRequest) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// =============================================================================
// PlaceOrder
// =============================================================================

func TestOrderCommands_PlaceOrder(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	key := uuid.New()

	t.Run("first run reserves stock and creates the order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		b := builder.NewOrderBuilder()
		req := b.BuildPlaceOrderRequestDTO()
		variantID := req.Items[0].VariantID
		orderID := uuid.New()
		view := b.BuildViewQuery()

		m.idempotency.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, userID, "POST /api/orders", requestHash(t, req), fixedNow.Add(24*time.Hour)).
			Return(true, nil)
		m.inventory.EXPECT().
			CheckAvailability(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]inventory.Check{inventory.NewCheck(variantID, req.Items[0].Quantity, 10)}, nil)
		m.reads.EXPECT().
			VariantsByIDs(gomock.Any(), []uuid.UUID{variantID}).
			Return([]shared.VariantSnapshot{
				{ID: variantID, ProductID: b.ProductID, Size: b.VariantSize, PriceCents: b.PriceCents, Stock: 10},
			}, nil)
		m.inventory.EXPECT().
			Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, items []inventory.Item) error {
				require.Len(t, items, 1)
				assert.Equal(t, variantID, items[0].VariantID)
				assert.Equal(t, req.Items[0].Quantity, items[0].Quantity)
				return nil
			})
		m.orders.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, o *order.Order) (uuid.UUID, error) {
				assert.Equal(t, order.StatusPending, o.Status())
				assert.Equal(t, b.PriceCents*int64(req.Items[0].Quantity), o.SubtotalCents())
				return orderID, nil
			})
		m.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), "email", "order_created", gomock.Any(), fixedNow).
			Return(nil)
		m.idempotency.EXPECT().
			UpdateStatusCompleted(gomock.Any(), gomock.Any(), key, userID, gomock.Any(), orderID).
			Return(nil)
		m.orderQueries.EXPECT().
			GetByIDSystem(gomock.Any(), orderID).
			Return(view, nil)

		result, err := cmd.PlaceOrder(ctx, req, userID, key)
		require.NoError(t, err)
		require.NotNil(t, result)
		assert.False(t, result.IsReplayed)
		assert.Equal(t, view, result.Order)
	})

	t.Run("replay of a completed request touches no stock", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		b := builder.NewOrderBuilder()
		req := b.BuildPlaceOrderRequestDTO()
		orderID := uuid.New()
		view := b.BuildViewQuery()

		m.idempotency.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, userID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		m.reads.EXPECT().
			IdempotencyByKey(gomock.Any(), key, userID).
			Return(&shared.IdempotencyRecord{
				Key:           key,
				UserID:        userID,
				Status:        "completed",
				RequestHash:   requestHash(t, req),
				ResultOrderID: &orderID,
			}, nil)
		m.orderQueries.EXPECT().
			GetByIDSystem(gomock.Any(), orderID).
			Return(view, nil)

		result, err := cmd.PlaceOrder(ctx, req, userID, key)
		require.NoError(t, err)
		assert.True(t, result.IsReplayed)
		assert.Equal(t, view, result.Order)
	})

	t.Run("key reuse with a different payload is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		req := builder.NewOrderBuilder().BuildPlaceOrderRequestDTO()

		m.idempotency.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, userID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		m.reads.EXPECT().
			IdempotencyByKey(gomock.Any(), key, userID).
			Return(&shared.IdempotencyRecord{
				Status:      "completed",
				RequestHash: "some-other-request",
			}, nil)

		_, err := cmd.PlaceOrder(ctx, req, userID, key)
		require.ErrorIs(t, err, commands.ErrDuplicateOrder)
	})

	t.Run("concurrent in-flight request is reported", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		req := builder.NewOrderBuilder().BuildPlaceOrderRequestDTO()

		m.idempotency.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, userID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(false, nil)
		m.reads.EXPECT().
			IdempotencyByKey(gomock.Any(), key, userID).
			Return(&shared.IdempotencyRecord{
				Status:      "processing",
				RequestHash: requestHash(t, req),
			}, nil)

		_, err := cmd.PlaceOrder(ctx, req, userID, key)
		require.ErrorIs(t, err, commands.ErrIdempotencyInProgress)
	})

	t.Run("every short line is reported before reserving", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		shortA, shortB := uuid.New(), uuid.New()
		req := reqdto.PlaceOrderRequest{
			Items: []reqdto.OrderItemRequest{
				{VariantID: shortA, Quantity: 5},
				{VariantID: shortB, Quantity: 2},
			},
			Email:           "buyer@example.com",
			ShippingAddress: json.RawMessage(`{"line1":"1 Test St"}`),
		}

		m.idempotency.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, userID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.inventory.EXPECT().
			CheckAvailability(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]inventory.Check{
				inventory.NewCheck(shortA, 5, 1),
				inventory.NewCheck(shortB, 2, 0),
			}, nil)

		_, err := cmd.PlaceOrder(ctx, req, userID, key)
		require.ErrorIs(t, err, commands.ErrOutOfStock)

		var outOfStock *commands.OutOfStockError
		require.ErrorAs(t, err, &outOfStock)
		require.Len(t, outOfStock.Shortages, 2)
		assert.Equal(t, shortA, outOfStock.Shortages[0].VariantID)
		assert.Equal(t, int32(1), outOfStock.Shortages[0].Available)
		assert.Equal(t, shortB, outOfStock.Shortages[1].VariantID)
	})

	t.Run("unknown variant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		req := builder.NewOrderBuilder().BuildPlaceOrderRequestDTO()

		m.idempotency.EXPECT().
			TryInsert(gomock.Any(), gomock.Any(), key, userID, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(true, nil)
		m.inventory.EXPECT().
			CheckAvailability(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, infra.WrapRepoErr("variant not found", nil, infra.KindNotFound))

		_, err := cmd.PlaceOrder(ctx, req, userID, key)
		require.ErrorIs(t, err, commands.ErrVariantNotFound)
	})

	t.Run("domain validation failures never reach the ledger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		_, cmd := newOrderCommandsMocks(ctrl)

		cases := []struct {
			name   string
			mutate func(*reqdto.PlaceOrderRequest)
		}{
			{name: "no items", mutate: func(r *reqdto.PlaceOrderRequest) { r.Items = nil }},
			{name: "zero quantity", mutate: func(r *reqdto.PlaceOrderRequest) { r.Items[0].Quantity = 0 }},
			{name: "bad email", mutate: func(r *reqdto.PlaceOrderRequest) { r.Email = "nope" }},
			{name: "bad address", mutate: func(r *reqdto.PlaceOrderRequest) { r.ShippingAddress = json.RawMessage(`{`) }},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				req := builder.NewOrderBuilder().BuildPlaceOrderRequestDTO()
				c.mutate(&req)
				_, err := cmd.PlaceOrder(ctx, req, userID, key)
				require.ErrorIs(t, err, commands.ErrDomainValidation)
			})
		}
	})
}

// =============================================================================
// CancelOrder
// =============================================================================

func TestOrderCommands_CancelOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels a pending order and stock is released", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		b := builder.NewOrderBuilder()
		snap := b.BuildSnapshot()

		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.inventory.EXPECT().
			Release(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, items []inventory.Item) error {
				require.Len(t, items, 1)
				assert.Equal(t, b.VariantID, items[0].VariantID)
				assert.Equal(t, b.Quantity, items[0].Quantity)
				return nil
			})
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, params shared.UpdateOrderStatusParams) error {
				assert.Equal(t, snap.ID, params.ID)
				assert.Equal(t, order.StatusCancelled, params.Status)
				assert.Equal(t, snap.Version, params.ExpectedVersion)
				return nil
			})
		m.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), "email", "order_cancelled", gomock.Any(), fixedNow).
			Return(nil)

		err := cmd.CancelOrder(ctx, b.UserID, user.RoleCustomer, snap.ID)
		require.NoError(t, err)
	})

	t.Run("admin can cancel another user's order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().BuildSnapshot()

		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.inventory.EXPECT().Release(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), "email", "order_cancelled", gomock.Any(), gomock.Any()).
			Return(nil)

		err := cmd.CancelOrder(ctx, uuid.New(), user.RoleAdmin, snap.ID)
		require.NoError(t, err)
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().BuildSnapshot()
		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)

		err := cmd.CancelOrder(ctx, uuid.New(), user.RoleCustomer, snap.ID)
		require.ErrorIs(t, err, commands.ErrOrderAccessDenied)
	})

	t.Run("shipped order is not cancellable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		b := builder.NewOrderBuilder().WithStatus(string(order.StatusShipped))
		snap := b.BuildSnapshot()
		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)

		err := cmd.CancelOrder(ctx, b.UserID, user.RoleCustomer, snap.ID)
		require.ErrorIs(t, err, commands.ErrOrderNotCancellable)
	})

	t.Run("missing order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		orderID := uuid.New()
		m.reads.EXPECT().OrderByID(gomock.Any(), orderID).
			Return(nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound))

		err := cmd.CancelOrder(ctx, uuid.New(), user.RoleCustomer, orderID)
		require.ErrorIs(t, err, commands.ErrOrderNotFound)
	})

	t.Run("concurrent modification surfaces as a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		b := builder.NewOrderBuilder()
		snap := b.BuildSnapshot()

		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.inventory.EXPECT().Release(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("version mismatch", nil, infra.KindConflict))

		err := cmd.CancelOrder(ctx, b.UserID, user.RoleCustomer, snap.ID)
		require.ErrorIs(t, err, commands.ErrOrderConflict)
	})
}

// =============================================================================
// UpdateStatus
// =============================================================================

func TestOrderCommands_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("pending moves to processing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().BuildSnapshot()
		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, params shared.UpdateOrderStatusParams) error {
				assert.Equal(t, order.StatusProcessing, params.Status)
				assert.Nil(t, params.TrackingNumber)
				assert.Nil(t, params.ShippedAt)
				return nil
			})

		err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{Status: "PROCESSING"})
		require.NoError(t, err)
	})

	t.Run("shipping requires a tracking number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().WithStatus(string(order.StatusProcessing)).BuildSnapshot()
		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)

		err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{Status: "SHIPPED"})
		require.ErrorIs(t, err, commands.ErrTrackingRequired)
	})

	t.Run("whitespace-only tracking number counts as missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().WithStatus(string(order.StatusProcessing)).BuildSnapshot()
		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)

		blank := "   "
		err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{
			Status:         "SHIPPED",
			TrackingNumber: &blank,
		})
		require.ErrorIs(t, err, commands.ErrTrackingRequired)
	})

	t.Run("shipping stamps tracking info and shipped_at", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().WithStatus(string(order.StatusProcessing)).BuildSnapshot()
		tracking := "TRK-42"
		url := "https://carrier.example/TRK-42"

		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, params shared.UpdateOrderStatusParams) error {
				assert.Equal(t, order.StatusShipped, params.Status)
				require.NotNil(t, params.TrackingNumber)
				assert.Equal(t, tracking, *params.TrackingNumber)
				require.NotNil(t, params.TrackingURL)
				assert.Equal(t, url, *params.TrackingURL)
				require.NotNil(t, params.ShippedAt)
				assert.Equal(t, fixedNow, *params.ShippedAt)
				return nil
			})
		m.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), "email", "order_shipped", gomock.Any(), fixedNow).
			Return(nil)

		err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{
			Status:         "SHIPPED",
			TrackingNumber: &tracking,
			TrackingURL:    &url,
		})
		require.NoError(t, err)
	})

	t.Run("delivery enqueues a notification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().WithStatus(string(order.StatusShipped)).BuildSnapshot()
		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		m.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), "email", "order_delivered", gomock.Any(), gomock.Any()).
			Return(nil)

		err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{Status: "DELIVERED"})
		require.NoError(t, err)
	})

	t.Run("cancel via status update goes through the release path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		b := builder.NewOrderBuilder().WithStatus(string(order.StatusProcessing))
		snap := b.BuildSnapshot()

		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.inventory.EXPECT().
			Release(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, items []inventory.Item) error {
				require.Len(t, items, 1)
				assert.Equal(t, b.VariantID, items[0].VariantID)
				return nil
			})
		m.orders.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ db.DBTX, params shared.UpdateOrderStatusParams) error {
				assert.Equal(t, order.StatusCancelled, params.Status)
				return nil
			})
		m.notifications.EXPECT().
			CreateJob(gomock.Any(), gomock.Any(), "email", "order_cancelled", gomock.Any(), gomock.Any()).
			Return(nil)

		err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{Status: "CANCELLED"})
		require.NoError(t, err)
	})

	t.Run("invalid transitions are rejected", func(t *testing.T) {
		cases := []struct {
			name string
			from order.Status
			to   string
		}{
			{name: "pending straight to shipped", from: order.StatusPending, to: "SHIPPED"},
			{name: "delivered back to processing", from: order.StatusDelivered, to: "PROCESSING"},
			{name: "cancelled revived", from: order.StatusCancelled, to: "PENDING"},
			{name: "shipped cancelled", from: order.StatusShipped, to: "CANCELLED"},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()
				m, cmd := newOrderCommandsMocks(ctrl)

				snap := builder.NewOrderBuilder().WithStatus(string(c.from)).BuildSnapshot()
				m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)

				err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{Status: c.to})
				require.ErrorIs(t, err, commands.ErrInvalidTransition)
			})
		}
	})

	t.Run("unknown status string", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		_, cmd := newOrderCommandsMocks(ctrl)

		err := cmd.UpdateStatus(ctx, uuid.New(), reqdto.UpdateOrderStatusRequest{Status: "LOST"})
		require.ErrorIs(t, err, commands.ErrDomainValidation)
	})

	t.Run("stale version surfaces as a conflict", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		m, cmd := newOrderCommandsMocks(ctrl)

		snap := builder.NewOrderBuilder().BuildSnapshot()
		m.reads.EXPECT().OrderByID(gomock.Any(), snap.ID).Return(snap, nil)
		m.orders.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(infra.WrapRepoErr("version mismatch", nil, infra.KindConflict))

		err := cmd.UpdateStatus(ctx, snap.ID, reqdto.UpdateOrderStatusRequest{Status: "PROCESSING"})
		require.ErrorIs(t, err, commands.ErrOrderConflict)
	})
}

// classifyReserveError is exercised indirectly; a raced reserve after a clean
// pre-check must still come back as out-of-stock.
func TestOrderCommands_PlaceOrder_ReserveRace(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, cmd := newOrderCommandsMocks(ctrl)

	b := builder.NewOrderBuilder()
	req := b.BuildPlaceOrderRequestDTO()
	variantID := req.Items[0].VariantID

	m.idempotency.EXPECT().
		TryInsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(true, nil)
	m.inventory.EXPECT().
		CheckAvailability(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]inventory.Check{inventory.NewCheck(variantID, req.Items[0].Quantity, 10)}, nil)
	m.reads.EXPECT().
		VariantsByIDs(gomock.Any(), gomock.Any()).
		Return([]shared.VariantSnapshot{{ID: variantID, ProductID: b.ProductID, PriceCents: b.PriceCents, Stock: 10}}, nil)
	m.inventory.EXPECT().
		Reserve(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(infra.WrapRepoErr("insufficient stock",
			&shared.InsufficientStockError{VariantID: variantID, Requested: 2, Available: 1},
			infra.KindInsufficientStock))

	_, err := cmd.PlaceOrder(ctx, req, uuid.New(), uuid.New())
	require.ErrorIs(t, err, commands.ErrOutOfStock)

	var outOfStock *commands.OutOfStockError
	require.True(t, errors.As(err, &outOfStock))
	require.Len(t, outOfStock.Shortages, 1)
	require.Equal(t, variantID, outOfStock.Shortages[0].VariantID)
}
