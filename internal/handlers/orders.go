package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"stature-backend/internal/middleware"
	"stature-backend/internal/models"
	"stature-backend/internal/services"
)

// OrderManager is implemented by services.OrderService.
type OrderManager interface {
	CreateOrder(ctx context.Context, in services.CreateOrderInput) (*services.CreateOrderResult, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListUserOrders(ctx context.Context, uid string) ([]models.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*models.Order, error)
}

type OrdersHandler struct {
	orders OrderManager
}

func NewOrdersHandler(orders OrderManager) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// CreateOrder godoc
// @Summary     Record a paid package
// @Description Records the order for a captured payment and grants the package credits.
// @Description A payment reference is only ever credited once; replays answer 200 with duplicate=true.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CreateOrderRequest true "Package and payment reference"
// @Success     201 {object} models.CreateOrderResponse
// @Success     200 {object} models.CreateOrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /createOrder [post]
func (h *OrdersHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body.", Message: err.Error()})
		return
	}

	result, err := h.orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		UID:         middleware.GetUserID(c),
		Email:       middleware.GetUserEmail(c),
		PackageType: req.PackageType,
		PaymentID:   req.PaymentDetails.OrderID,
	})
	if err != nil {
		respondError(c, err, "Failed to create order.")
		return
	}

	if result.Duplicate {
		c.JSON(http.StatusOK, models.CreateOrderResponse{
			Message:   "Order already recorded",
			OrderID:   result.Order.ID.String(),
			Duplicate: true,
		})
		return
	}

	c.JSON(http.StatusCreated, models.CreateOrderResponse{
		Message: "Order created successfully",
		OrderID: result.Order.ID.String(),
	})
}

// ListOrders godoc
// @Summary     List all orders
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {array}  models.OrderResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /orders [get]
func (h *OrdersHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch orders.")
		return
	}
	c.JSON(http.StatusOK, orderResponses(orders))
}

// ListUserOrders godoc
// @Summary     List a user's orders
// @Description Callers may read their own orders; admins may read anyone's.
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Param       uid path string true "User id"
// @Success     200 {array}  models.OrderResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /orders/{uid} [get]
func (h *OrdersHandler) ListUserOrders(c *gin.Context) {
	orders, err := h.orders.ListUserOrders(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err, "Failed to fetch orders.")
		return
	}
	c.JSON(http.StatusOK, orderResponses(orders))
}

// CancelOrder godoc
// @Summary     Cancel an order
// @Description Marks an order cancelled. Credits already granted are kept.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.CancelOrderRequest true "Order id"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /cancelOrder [post]
func (h *OrdersHandler) CancelOrder(c *gin.Context) {
	var req models.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body.", Message: err.Error()})
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), req.OrderID)
	if err != nil {
		respondError(c, err, "Failed to cancel order.")
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "Order " + order.ID.String() + " cancelled."})
}

func orderResponses(orders []models.Order) []models.OrderResponse {
	out := make([]models.OrderResponse, len(orders))
	for i := range orders {
		out[i] = models.NewOrderResponse(&orders[i])
	}
	return out
}
