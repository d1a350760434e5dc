package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/middleware"
	"gizmohub_back_end/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// CreateOrder always creates a Pending order; a status in the body is ignored
// and line prices are taken from the catalog, not the client.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var input struct {
		CustomerID      uint                     `json:"customer_id"`
		CustomerIDCamel uint                     `json:"customerId"`
		Items           []service.OrderItemInput `json:"items"`
		Total           *decimal.Decimal         `json:"total"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}

	actor := middleware.ActorFrom(c)
	customerID, ok := customerFor(c, actor, input.CustomerID, input.CustomerIDCamel)
	if !ok {
		return
	}
	if !actor.CanActFor(customerID) {
		handlers.RespondError(c, service.ErrForbidden)
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), service.CreateOrderInput{
		CustomerID: customerID,
		Items:      input.Items,
		Total:      input.Total,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": order.ID,
		"message":  "Order created successfully",
		"order":    order,
	})
}

// GetOrders is mounted behind RequireCustomerAccess("customerId").
func (h *OrderHandler) GetOrders(c *gin.Context) {
	customerID, ok := handlers.ParseID(c, "customerId")
	if !ok {
		return
	}
	orders, err := h.orders.History(c.Request.Context(), customerID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
