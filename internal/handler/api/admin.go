package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	orderCommands     commands.OrderCommands
	inventoryCommands commands.InventoryCommands
	inventoryQueries  queries.InventoryQueries
}

func NewAdminHandler(
	orderCommands commands.OrderCommands,
	inventoryCommands commands.InventoryCommands,
	inventoryQueries queries.InventoryQueries,
) *AdminHandler {
	return &AdminHandler{
		orderCommands:     orderCommands,
		inventoryCommands: inventoryCommands,
		inventoryQueries:  inventoryQueries,
	}
}

// @Summary Update order status
// @Description Move an order along the lifecycle; SHIPPED requires a tracking number
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.UpdateOrderStatusRequest true "Status update"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/orders/{id}/status [patch]
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	var req reqdto.UpdateOrderStatusRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.orderCommands.UpdateStatus(c.Request.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid order status",
			})
		case errors.Is(err, commands.ErrTrackingRequired):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Tracking number required to mark order shipped",
			})
		case errors.Is(err, commands.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Invalid status transition",
			})
		case errors.Is(err, commands.ErrOrderConflict):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order was modified concurrently",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Set variant stock
// @Description Overwrite the stock counter for a variant (restock/correction)
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Variant ID"
// @Param request body reqdto.SetStockRequest true "Stock level"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /admin/variants/{id}/stock [put]
func (h *AdminHandler) SetVariantStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid variant ID format",
		})
		return
	}

	var req reqdto.SetStockRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	if err := h.inventoryCommands.SetStock(c.Request.Context(), id, req.Stock); err != nil {
		switch {
		case errors.Is(err, commands.ErrVariantNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Variant not found",
			})
		case errors.Is(err, commands.ErrDomainValidation):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid stock level",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Low stock report
// @Description List variants at or below the threshold, lowest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param threshold query int false "Stock threshold (default 5)"
// @Success 200 {array} resdto.LowStockResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /admin/inventory/low-stock [get]
func (h *AdminHandler) LowStock(c *gin.Context) {
	// -1 marks an absent parameter; an explicit 0 lists sold-out variants only
	threshold := int32(-1)
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid threshold",
			})
			return
		}
		threshold = int32(parsed)
	}

	rows, err := h.inventoryQueries.LowStock(c.Request.Context(), threshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.LowStockResponse, 0, len(rows))
	for _, row := range rows {
		r, err := resdto.FromLowStockRow(row)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}
		response = append(response, r)
	}

	c.JSON(http.StatusOK, response)
}
