package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/middleware"
	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetCart is mounted behind RequireCustomerAccess("customerId").
func (h *CartHandler) GetCart(c *gin.Context) {
	customerID, ok := handlers.ParseID(c, "customerId")
	if !ok {
		return
	}
	cart, err := h.carts.Get(c.Request.Context(), customerID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart takes snake_case ids, and the camelCase ones older clients send.
// Without a customer id a customer's own cart is used.
func (h *CartHandler) AddToCart(c *gin.Context) {
	var input struct {
		CustomerID      uint `json:"customer_id"`
		CustomerIDCamel uint `json:"customerId"`
		ProductID       uint `json:"product_id"`
		ProductIDCamel  uint `json:"productId"`
		Quantity        int  `json:"quantity"`
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
	productID := firstNonZero(input.ProductID, input.ProductIDCamel)
	if !actor.CanActFor(customerID) {
		handlers.RespondError(c, service.ErrForbidden)
		return
	}

	cart, err := h.carts.Add(c.Request.Context(), customerID, productID, input.Quantity)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to cart", "cart": cart})
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	cartID, ok := handlers.ParseID(c, "cartId")
	if !ok {
		return
	}
	var input struct {
		Quantity *int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Quantity == nil {
		handlers.BadRequest(c, "quantity is required")
		return
	}

	cart, err := h.carts.UpdateQuantity(c.Request.Context(), middleware.ActorFrom(c), cartID, *input.Quantity)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": cart})
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	cartID, ok := handlers.ParseID(c, "cartId")
	if !ok {
		return
	}
	cart, err := h.carts.Remove(c.Request.Context(), middleware.ActorFrom(c), cartID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Removed from cart", "cart": cart})
}

// ClearCart is mounted behind RequireCustomerAccess("customerId").
func (h *CartHandler) ClearCart(c *gin.Context) {
	customerID, ok := handlers.ParseID(c, "customerId")
	if !ok {
		return
	}
	cart, err := h.carts.Clear(c.Request.Context(), customerID)
	if err != nil {
		handlers.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "cart": cart})
}

func firstNonZero(ids ...uint) uint {
	for _, id := range ids {
		if id != 0 {
			return id
		}
	}
	return 0
}

// customerFor picks the customer a request acts on. Only customers may leave it out:
// admin ids come from another sequence and never name a customer.
func customerFor(c *gin.Context, actor service.Actor, ids ...uint) (uint, bool) {
	if id := firstNonZero(ids...); id != 0 {
		return id, true
	}
	if actor.Role == models.RoleCustomer && actor.ID != 0 {
		return actor.ID, true
	}
	handlers.BadRequest(c, "customer_id is required")
	return 0, false
}
