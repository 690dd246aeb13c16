package api

import (
	"errors"
	"net/http"

	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/handler/middleware"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderCommands commands.OrderCommands
	orderQueries  queries.OrderQueries
}

func NewOrderHandler(orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderCommands: orderCommands,
		orderQueries:  orderQueries,
	}
}

// @Summary Place order
// @Description Place a new order, reserving stock for every line
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.PlaceOrderRequest true "Order request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.PlaceOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.orderCommands.PlaceOrder(c.Request.Context(), req, userID, idempotencyKey)
	if err != nil {
		h.respondPlaceOrderError(c, err)
		return
	}

	response, err := resdto.FromOrderView(result.Order)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, response)
}

func (h *OrderHandler) respondPlaceOrderError(c *gin.Context, err error) {
	var outOfStock *commands.OutOfStockError
	switch {
	case errors.As(err, &outOfStock):
		detail := make([]gin.H, 0, len(outOfStock.Shortages))
		for _, s := range outOfStock.Shortages {
			detail = append(detail, gin.H{
				"variant_id": s.VariantID,
				"requested":  s.Requested,
				"available":  s.Available,
			})
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Insufficient stock",
			"detail": detail,
		})
	case errors.Is(err, commands.ErrVariantNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Variant not found",
		})
	case errors.Is(err, commands.ErrDuplicateOrder):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Idempotency key reused with a different request",
		})
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order request is currently being processed",
		})
	case errors.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// @Summary Get order
// @Description Get order by ID; owners only unless admin
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), userID, role, id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, queries.ErrOrderAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response, err := resdto.FromOrderView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get user orders
// @Description List the current user's orders, newest first
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.OrderListResponse
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	items, err := h.orderQueries.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	response := make([]*resdto.OrderListResponse, 0, len(items))
	for _, item := range items {
		r, err := resdto.FromOrderListItem(item)
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

// @Summary Cancel order
// @Description Cancel an order and release its reserved stock
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	if err := h.orderCommands.CancelOrder(c.Request.Context(), userID, role, id); err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errors.Is(err, commands.ErrOrderAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Access denied",
			})
		case errors.Is(err, commands.ErrOrderNotCancellable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Order cannot be cancelled in its current status",
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

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errors.New("Idempotency-Key header required")
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
