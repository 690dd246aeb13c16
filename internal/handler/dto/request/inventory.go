package request

type SetStockRequest struct {
	Stock int32 `json:"stock" binding:"gte=0"`
}
