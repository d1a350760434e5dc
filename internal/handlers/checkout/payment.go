package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gizmohub_back_end/internal/handlers"
	"gizmohub_back_end/internal/middleware"
	"gizmohub_back_end/internal/service"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePayment pays a Pending order. Card numbers never leave this request: only the last four digits are stored.
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var input struct {
		OrderID       uint                 `json:"order_id"`
		OrderIDCamel  uint                 `json:"orderId"`
		PaymentMethod string               `json:"payment_method"`
		Amount        *decimal.Decimal     `json:"amount"`
		PaymentStatus string               `json:"payment_status"`
		CardDetails   *service.CardDetails `json:"card_details"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		handlers.BadRequest(c, "invalid request body")
		return
	}

	orderID := input.OrderID
	if orderID == 0 {
		orderID = input.OrderIDCamel
	}

	res, err := h.payments.CreatePayment(c.Request.Context(), middleware.ActorFrom(c), service.CreatePaymentInput{
		OrderID: orderID,
		Method:  input.PaymentMethod,
		Amount:  input.Amount,
		Status:  input.PaymentStatus,
		Card:    input.CardDetails,
	})
	if err != nil {
		handlers.RespondError(c, err)
		return
	}

	body := gin.H{
		"payment_id": res.Payment.ID,
		"message":    "Payment recorded successfully",
		"payment":    res.Payment,
	}
	if res.QRCode != "" {
		body["qr_code"] = res.QRCode
	}
	c.JSON(http.StatusCreated, body)
}
