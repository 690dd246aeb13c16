package request

import (
	"encoding/json"
	"strings"

	"storefront/internal/domain/inventory"

	"github.com/google/uuid"
)

type OrderItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int32     `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Email           string             `json:"email" binding:"required,email"`
	ShippingCents   int64              `json:"shipping_cents" binding:"gte=0"`
	ShippingAddress json.RawMessage    `json:"shipping_address" binding:"required"`
	PaymentRef      *string            `json:"payment_ref,omitempty"`
}

// ToBatch validates and merges the requested lines into a ledger batch.
func (r PlaceOrderRequest) ToBatch() ([]inventory.Item, error) {
	items := make([]inventory.Item, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, inventory.Item{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return inventory.NewBatch(items)
}

func (r PlaceOrderRequest) GetPaymentRef() *string {
	if r.PaymentRef == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.PaymentRef)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

type UpdateOrderStatusRequest struct {
	Status         string  `json:"status" binding:"required"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
	TrackingURL    *string `json:"tracking_url,omitempty"`
}

func (r UpdateOrderStatusRequest) GetTrackingNumber() *string {
	if r.TrackingNumber == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.TrackingNumber)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
