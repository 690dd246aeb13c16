package order

import (
	"encoding/json"
	"errors"
	"net/mail"
	"strings"
	"time"

	"storefront/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrNoItems          = errors.New("order must contain at least one item")
	ErrInvalidItem      = errors.New("invalid order item")
	ErrInvalidEmail     = errors.New("invalid customer email")
	ErrNegativeShipping = errors.New("shipping cost cannot be negative")
	ErrInvalidAddress   = errors.New("invalid shipping address")
)

type Email struct {
	value string
}

func NewEmail(s string) (Email, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Email{}, ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: trimmed}, nil
}

func (e Email) String() string { return e.value }

// ShippingAddress is persisted as a serialized JSON document; the core never
// interprets individual address fields.
type ShippingAddress struct {
	raw json.RawMessage
}

func NewShippingAddress(raw json.RawMessage) (ShippingAddress, error) {
	if len(raw) == 0 || !json.Valid(raw) {
		return ShippingAddress{}, ErrInvalidAddress
	}
	return ShippingAddress{raw: raw}, nil
}

func (a ShippingAddress) Raw() json.RawMessage { return a.raw }

// Item is a purchased line with the unit price frozen at order time.
type Item struct {
	productID  uuid.UUID
	variantID  uuid.UUID
	quantity   int32
	priceCents int64
}

func NewItem(productID, variantID uuid.UUID, quantity int32, priceCents int64) (Item, error) {
	if productID == uuid.Nil || variantID == uuid.Nil || quantity <= 0 || priceCents < 0 {
		return Item{}, ErrInvalidItem
	}
	return Item{
		productID:  productID,
		variantID:  variantID,
		quantity:   quantity,
		priceCents: priceCents,
	}, nil
}

func (i Item) ProductID() uuid.UUID { return i.productID }
func (i Item) VariantID() uuid.UUID { return i.variantID }
func (i Item) Quantity() int32      { return i.quantity }
func (i Item) PriceCents() int64    { return i.priceCents }
func (i Item) LineTotalCents() int64 {
	return i.priceCents * int64(i.quantity)
}

type Order struct {
	id              uuid.UUID
	userID          *uuid.UUID
	email           Email
	status          Status
	items           []Item
	subtotalCents   int64
	shippingCents   int64
	totalCents      int64
	shippingAddress ShippingAddress
	paymentRef      *string
	version         int32
	createdAt       time.Time
	updatedAt       time.Time
}

// NewOrder builds a PENDING order and derives subtotal and total from the item
// lines, keeping the "sum of lines + shipping = total" invariant by construction.
func NewOrder(
	clk clock.Clock,
	userID *uuid.UUID,
	email Email,
	items []Item,
	shippingCents int64,
	address ShippingAddress,
	paymentRef *string,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if shippingCents < 0 {
		return nil, ErrNegativeShipping
	}

	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotalCents()
	}

	now := clk.Now()
	return &Order{
		id:              uuid.New(),
		userID:          userID,
		email:           email,
		status:          StatusPending,
		items:           items,
		subtotalCents:   subtotal,
		shippingCents:   shippingCents,
		totalCents:      subtotal + shippingCents,
		shippingAddress: address,
		paymentRef:      paymentRef,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func (o *Order) ID() uuid.UUID                    { return o.id }
func (o *Order) UserID() *uuid.UUID               { return o.userID }
func (o *Order) Email() Email                     { return o.email }
func (o *Order) Status() Status                   { return o.status }
func (o *Order) Items() []Item                    { return o.items }
func (o *Order) SubtotalCents() int64             { return o.subtotalCents }
func (o *Order) ShippingCents() int64             { return o.shippingCents }
func (o *Order) TotalCents() int64                { return o.totalCents }
func (o *Order) ShippingAddress() ShippingAddress { return o.shippingAddress }
func (o *Order) PaymentRef() *string              { return o.paymentRef }
func (o *Order) Version() int32                   { return o.version }
func (o *Order) CreatedAt() time.Time             { return o.createdAt }
func (o *Order) UpdatedAt() time.Time             { return o.updatedAt }
