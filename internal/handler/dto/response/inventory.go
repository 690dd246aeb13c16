package response

import (
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type LowStockResponse struct {
	VariantID    uuid.UUID `json:"variantId"`
	ProductID    uuid.UUID `json:"productId"`
	ProductTitle string    `json:"productTitle"`
	ProductType  string    `json:"productType"`
	Size         string    `json:"size"`
	Stock        int32     `json:"stock"`
}

func FromLowStockRow(rm *queries.LowStockRow) (*LowStockResponse, error) {
	var resp LowStockResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}
