//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	domorder "storefront/internal/domain/order"
	reqdto "storefront/internal/handler/dto/request"
	"storefront/internal/pkg/clock"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderBuilder struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Email           string
	ProductID       uuid.UUID
	ProductTitle    string
	VariantID       uuid.UUID
	VariantSize     string
	Quantity        int32
	PriceCents      int64
	ShippingCents   int64
	ShippingAddress json.RawMessage
	PaymentRef      *string
	Status          string
	Version         int32
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewOrderBuilder() *OrderBuilder {
	now := time.Now()
	return &OrderBuilder{
		ID:              uuid.New(),
		UserID:          uuid.New(),
		Email:           "buyer@example.com",
		ProductID:       uuid.New(),
		ProductTitle:    "Test Product",
		VariantID:       uuid.New(),
		VariantSize:     "M",
		Quantity:        2,
		PriceCents:      1500,
		ShippingCents:   500,
		ShippingAddress: json.RawMessage(`{"line1":"1 Test St","city":"Testville","zip":"12345"}`),
		Status:          string(domorder.StatusPending),
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *OrderBuilder) With(mutate func(*OrderBuilder)) *OrderBuilder {
	mutate(b)
	return b
}

func (b *OrderBuilder) WithEmail(email string) *OrderBuilder {
	b.Email = email
	return b
}

func (b *OrderBuilder) WithQuantity(quantity int32) *OrderBuilder {
	b.Quantity = quantity
	return b
}

func (b *OrderBuilder) WithPriceCents(priceCents int64) *OrderBuilder {
	b.PriceCents = priceCents
	return b
}

func (b *OrderBuilder) WithShippingCents(shippingCents int64) *OrderBuilder {
	b.ShippingCents = shippingCents
	return b
}

func (b *OrderBuilder) WithShippingAddress(raw json.RawMessage) *OrderBuilder {
	b.ShippingAddress = raw
	return b
}

func (b *OrderBuilder) WithStatus(status string) *OrderBuilder {
	b.Status = status
	return b
}

func (b *OrderBuilder) WithVariantID(id uuid.UUID) *OrderBuilder {
	b.VariantID = id
	return b
}

// Build methods

func (b *OrderBuilder) BuildDomain() (*domorder.Order, error) {
	email, err := domorder.NewEmail(b.Email)
	if err != nil {
		return nil, err
	}
	address, err := domorder.NewShippingAddress(b.ShippingAddress)
	if err != nil {
		return nil, err
	}
	item, err := domorder.NewItem(b.ProductID, b.VariantID, b.Quantity, b.PriceCents)
	if err != nil {
		return nil, err
	}
	userID := b.UserID
	return domorder.NewOrder(clock.NewMockClock(b.CreatedAt), &userID, email, []domorder.Item{item}, b.ShippingCents, address, b.PaymentRef)
}

func (b *OrderBuilder) BuildPlaceOrderRequestDTO() reqdto.PlaceOrderRequest {
	return reqdto.PlaceOrderRequest{
		Items: []reqdto.OrderItemRequest{
			{VariantID: b.VariantID, Quantity: b.Quantity},
		},
		Email:           b.Email,
		ShippingCents:   b.ShippingCents,
		ShippingAddress: b.ShippingAddress,
		PaymentRef:      b.PaymentRef,
	}
}

func (b *OrderBuilder) BuildViewQuery() *queries.OrderView {
	subtotal := b.PriceCents * int64(b.Quantity)
	userID := b.UserID
	return &queries.OrderView{
		ID:              b.ID,
		UserID:          &userID,
		Email:           b.Email,
		Status:          b.Status,
		SubtotalCents:   subtotal,
		ShippingCents:   b.ShippingCents,
		TotalCents:      subtotal + b.ShippingCents,
		ShippingAddress: b.ShippingAddress,
		PaymentRef:      b.PaymentRef,
		Version:         b.Version,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Items: []queries.OrderItemView{
			{
				ProductID:    b.ProductID,
				ProductTitle: b.ProductTitle,
				VariantID:    b.VariantID,
				VariantSize:  b.VariantSize,
				Quantity:     b.Quantity,
				PriceCents:   b.PriceCents,
			},
		},
	}
}

func (b *OrderBuilder) BuildListItem() *queries.OrderListItem {
	subtotal := b.PriceCents * int64(b.Quantity)
	return &queries.OrderListItem{
		ID:         b.ID,
		Status:     b.Status,
		TotalCents: subtotal + b.ShippingCents,
		ItemCount:  1,
		CreatedAt:  b.CreatedAt,
	}
}

func (b *OrderBuilder) BuildSnapshot() *shared.OrderSnapshot {
	userID := b.UserID
	return &shared.OrderSnapshot{
		ID:     b.ID,
		UserID: &userID,
		Email:  b.Email,
		Status: b.Status,
		Items: []shared.OrderItemSnapshot{
			{
				ProductID:  b.ProductID,
				VariantID:  b.VariantID,
				Quantity:   b.Quantity,
				PriceCents: b.PriceCents,
			},
		},
		Version: b.Version,
	}
}
