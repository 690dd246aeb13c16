//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"storefront/internal/domain/order"
	"storefront/internal/domain/user"
	"storefront/internal/handler/api"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"
	"storefront/tests/common/httptest"
	"storefront/tests/common/testutil"
	commandsmock "storefront/tests/mock/commands"
	queriesmock "storefront/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockCtrl              *gomock.Controller
	mockOrderCommands     *commandsmock.MockOrderCommands
	mockInventoryCommands *commandsmock.MockInventoryCommands
	mockInventoryQueries  *queriesmock.MockInventoryQueries
	handler               *api.AdminHandler
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockOrderCommands = commandsmock.NewMockOrderCommands(s.mockCtrl)
	s.mockInventoryCommands = commandsmock.NewMockInventoryCommands(s.mockCtrl)
	s.mockInventoryQueries = queriesmock.NewMockInventoryQueries(s.mockCtrl)
	s.handler = api.NewAdminHandler(s.mockOrderCommands, s.mockInventoryCommands, s.mockInventoryQueries)

	// Mock authentication middleware for testing
	adminMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleAdmin)
		c.Next()
	}

	// Setup routes
	s.router.PATCH("/admin/orders/:id/status", adminMiddleware, s.handler.UpdateOrderStatus)
	s.router.PUT("/admin/variants/:id/stock", adminMiddleware, s.handler.SetVariantStock)
	s.router.GET("/admin/inventory/low-stock", adminMiddleware, s.handler.LowStock)
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

// ================================================================================
// TestUpdateOrderStatus
// ================================================================================

func (s *AdminHandlerTestSuite) TestUpdateOrderStatus() {
	orderID := uuid.New()
	url := "/admin/orders/" + orderID.String() + "/status"

	reqBody := reqdto.UpdateOrderStatusRequest{Status: string(order.StatusProcessing)}

	s.Run("success: returns 204 No Content", func() {
		s.mockOrderCommands.EXPECT().UpdateStatus(gomock.Any(), orderID, reqBody).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("success: ships with tracking info", func() {
		tracking := "TRK-12345"
		trackingURL := "https://tracking.example/TRK-12345"
		shipReq := reqdto.UpdateOrderStatusRequest{
			Status:         string(order.StatusShipped),
			TrackingNumber: &tracking,
			TrackingURL:    &trackingURL,
		}
		s.mockOrderCommands.EXPECT().UpdateStatus(gomock.Any(), orderID, shipReq).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, shipReq, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request on malformed order ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, "/admin/orders/not-a-uuid/status", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order ID format")
	})

	s.Run("error: 400 Bad Request when status is missing", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("status", nil))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "unknown order",
				commandsError:  commands.ErrOrderNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Order not found",
			},
			{
				name:           "unknown status value",
				commandsError:  commands.ErrDomainValidation,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid order status",
			},
			{
				name:           "shipping without tracking",
				commandsError:  commands.ErrTrackingRequired,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Tracking number required",
			},
			{
				name:           "lifecycle violation",
				commandsError:  commands.ErrInvalidTransition,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Invalid status transition",
			},
			{
				name:           "concurrent modification",
				commandsError:  commands.ErrOrderConflict,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "modified concurrently",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockOrderCommands.EXPECT().UpdateStatus(gomock.Any(), orderID, reqBody).
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestSetVariantStock
// ================================================================================

func (s *AdminHandlerTestSuite) TestSetVariantStock() {
	variantID := uuid.New()
	url := "/admin/variants/" + variantID.String() + "/stock"

	reqBody := reqdto.SetStockRequest{Stock: 25}

	s.Run("success: returns 204 No Content", func() {
		s.mockInventoryCommands.EXPECT().SetStock(gomock.Any(), variantID, int32(25)).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("success: zero empties the shelf", func() {
		s.mockInventoryCommands.EXPECT().SetStock(gomock.Any(), variantID, int32(0)).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqdto.SetStockRequest{Stock: 0}, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request on malformed variant ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/admin/variants/not-a-uuid/stock", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid variant ID format")
	})

	s.Run("error: 400 Bad Request on negative stock", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("stock", -1))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 404 Not Found for unknown variant", func() {
		s.mockInventoryCommands.EXPECT().SetStock(gomock.Any(), variantID, int32(25)).
			Return(commands.ErrVariantNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Variant not found")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestLowStock
// ================================================================================

func (s *AdminHandlerTestSuite) TestLowStock() {
	url := "/admin/inventory/low-stock"

	lowStockRows := func() []*queries.LowStockRow {
		return []*queries.LowStockRow{
			{
				VariantID:    uuid.New(),
				ProductID:    uuid.New(),
				ProductTitle: "Canvas Tote",
				ProductType:  "bag",
				Size:         "One Size",
				Stock:        0,
			},
			{
				VariantID:    uuid.New(),
				ProductID:    uuid.New(),
				ProductTitle: "Logo Tee",
				ProductType:  "shirt",
				Size:         "L",
				Stock:        3,
			},
		}
	}

	s.Run("success: returns 200 OK with the default threshold", func() {
		rows := lowStockRows()
		s.mockInventoryQueries.EXPECT().LowStock(gomock.Any(), int32(-1)).
			Return(rows, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.LowStockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response, 2)
		s.Equal(rows[0].VariantID, response[0].VariantID)
		s.Equal(rows[0].ProductTitle, response[0].ProductTitle)
		s.Equal(int32(0), response[0].Stock)
		s.Equal(int32(3), response[1].Stock)
	})

	s.Run("success: forwards an explicit threshold", func() {
		s.mockInventoryQueries.EXPECT().LowStock(gomock.Any(), int32(3)).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?threshold=3", nil, "bearer-token")

		var response []resdto.LowStockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("success: an explicit zero threshold is not coerced to the default", func() {
		s.mockInventoryQueries.EXPECT().LowStock(gomock.Any(), int32(0)).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?threshold=0", nil, "bearer-token")

		var response []resdto.LowStockResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 400 Bad Request on a non-numeric threshold", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?threshold=abc", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid threshold")
	})

	s.Run("error: 400 Bad Request on a negative threshold", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url+"?threshold=-1", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid threshold")
	})

	s.Run("error: 500 Internal Server Error when the report query fails", func() {
		s.mockInventoryQueries.EXPECT().LowStock(gomock.Any(), int32(-1)).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}
