package response

import (
	"encoding/json"
	"time"

	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderItemResponse struct {
	ProductID    uuid.UUID `json:"productId"`
	ProductTitle string    `json:"productTitle"`
	VariantID    uuid.UUID `json:"variantId"`
	VariantSize  string    `json:"variantSize"`
	Quantity     int32     `json:"quantity"`
	PriceCents   int64     `json:"priceCents"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	UserID          *uuid.UUID          `json:"userId,omitempty"`
	Email           string              `json:"email"`
	Status          string              `json:"status"`
	SubtotalCents   int64               `json:"subtotalCents"`
	ShippingCents   int64               `json:"shippingCents"`
	TotalCents      int64               `json:"totalCents"`
	ShippingAddress json.RawMessage     `json:"shippingAddress"`
	PaymentRef      *string             `json:"paymentRef,omitempty"`
	TrackingNumber  *string             `json:"trackingNumber,omitempty"`
	TrackingURL     *string             `json:"trackingUrl,omitempty"`
	ShippedAt       *time.Time          `json:"shippedAt,omitempty"`
	Version         int32               `json:"version"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
	Items           []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	ItemCount  int32     `json:"itemCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Field names line up with the query views on purpose so copier can do the
// mapping.
func FromOrderView(rm *queries.OrderView) (*OrderResponse, error) {
	var resp OrderResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromOrderListItem(rm *queries.OrderListItem) (*OrderListResponse, error) {
	var resp OrderListResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}
