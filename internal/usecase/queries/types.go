package queries

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type OrderItemView struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	VariantID    uuid.UUID `json:"variant_id"`
	VariantSize  string    `json:"variant_size"`
	Quantity     int32     `json:"quantity"`
	PriceCents   int64     `json:"price_cents"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	UserID          *uuid.UUID      `json:"user_id,omitempty"`
	Email           string          `json:"email"`
	Status          string          `json:"status"`
	SubtotalCents   int64           `json:"subtotal_cents"`
	ShippingCents   int64           `json:"shipping_cents"`
	TotalCents      int64           `json:"total_cents"`
	ShippingAddress json.RawMessage `json:"shipping_address"`
	PaymentRef      *string         `json:"payment_ref,omitempty"`
	TrackingNumber  *string         `json:"tracking_number,omitempty"`
	TrackingURL     *string         `json:"tracking_url,omitempty"`
	ShippedAt       *time.Time      `json:"shipped_at,omitempty"`
	Version         int32           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []OrderItemView `json:"items"`
}

type OrderListItem struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	ItemCount  int32     `json:"item_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// LowStockRow annotates a short variant with its parent product for the admin
// low-stock report.
type LowStockRow struct {
	VariantID    uuid.UUID `json:"variant_id"`
	ProductID    uuid.UUID `json:"product_id"`
	ProductTitle string    `json:"product_title"`
	ProductType  string    `json:"product_type"`
	Size         string    `json:"size"`
	Stock        int32     `json:"stock"`
}

type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}
