package service

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gizmohub_back_end/internal/events"
	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/payment"
	"gizmohub_back_end/internal/utils"
)

type CardDetails struct {
	CardNumber string `json:"card_number"`
	Last4      string `json:"last4"`
	CardHolder string `json:"card_holder"`
}

type CreatePaymentInput struct {
	OrderID uint
	Method  string
	Amount  *decimal.Decimal
	Status  string
	Card    *CardDetails
}

type PaymentResult struct {
	Payment models.Payment `json:"payment"`
	// QRCode is a PNG data URL, set for gcash and bank transfers.
	QRCode string `json:"qr_code,omitempty"`
}

type PaymentService struct {
	db       *gorm.DB
	gateway  PaymentGateway
	currency string
	mailer   Mailer
	events   EventPublisher
}

// NewPaymentService uses the local gateway until WithGateway installs a processor.
func NewPaymentService(db *gorm.DB, currency string) *PaymentService {
	return &PaymentService{db: db, gateway: payment.LocalGateway{}, currency: currency}
}

func (s *PaymentService) WithGateway(g PaymentGateway) *PaymentService {
	s.gateway = g
	return s
}

func (s *PaymentService) WithMailer(m Mailer) *PaymentService {
	s.mailer = m
	return s
}

func (s *PaymentService) WithEvents(p EventPublisher) *PaymentService {
	s.events = p
	return s
}

// CreatePayment records the payment of a Pending order and completes it.
// The processor is charged before the transaction so a gateway failure writes nothing.
func (s *PaymentService) CreatePayment(ctx context.Context, actor Actor, in CreatePaymentInput) (PaymentResult, error) {
	method := strings.ToLower(strings.TrimSpace(in.Method))
	if !slices.Contains(models.PaymentMethods, method) {
		return PaymentResult{}, ValidationError("payment_method must be one of %s", strings.Join(models.PaymentMethods, ", "))
	}
	if in.OrderID == 0 {
		return PaymentResult{}, ValidationError("order_id is required")
	}

	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").First(&order, in.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentResult{}, notFound("order")
		}
		return PaymentResult{}, err
	}
	if !actor.CanActFor(order.CustomerID) {
		return PaymentResult{}, ErrForbidden
	}
	if order.Status != models.OrderStatusPending {
		return PaymentResult{}, newError(ErrOrderNotPending, "order %d is already %s", order.ID, order.Status)
	}

	amount := order.Total
	if in.Amount != nil {
		if !in.Amount.Round(2).Equal(order.Total.Round(2)) {
			return PaymentResult{}, ValidationError("amount %s does not match the order total %s", in.Amount.StringFixed(2), order.Total.StringFixed(2))
		}
		amount = in.Amount.Round(2)
	}

	// the order flips only on a completed payment
	if status := strings.TrimSpace(in.Status); status != "" && !strings.EqualFold(status, models.PaymentStatusCompleted) {
		return PaymentResult{}, ValidationError("payment_status must be %s", models.PaymentStatusCompleted)
	}

	rec := models.Payment{
		OrderID:       order.ID,
		PaymentMethod: method,
		Amount:        amount,
		PaymentStatus: models.PaymentStatusCompleted,
	}

	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, order.CustomerID).Error; err != nil {
		return PaymentResult{}, err
	}

	charged := false
	if models.IsCardMethod(method) {
		last4, holder, err := validateCard(in.Card)
		if err != nil {
			return PaymentResult{}, err
		}
		rec.CardLast4 = &last4
		rec.CardHolder = &holder

		ref, err := s.gateway.Charge(ctx, payment.ChargeRequest{
			OrderID:    order.ID,
			Amount:     amount,
			Method:     method,
			CardHolder: holder,
			Email:      customer.Email,
		})
		if err != nil {
			return PaymentResult{}, err
		}
		rec.TransactionRef = ref
		charged = true
	} else {
		rec.TransactionRef, _ = payment.LocalGateway{}.Charge(ctx, payment.ChargeRequest{OrderID: order.ID})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// guarded so two concurrent payments cannot both complete the order
		res := tx.Model(&models.Order{}).
			Where("order_id = ? AND status = ?", order.ID, models.OrderStatusPending).
			Update("status", models.OrderStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return newError(ErrOrderNotPending, "order %d is no longer pending", order.ID)
		}
		return tx.Omit("Order").Create(&rec).Error
	})
	if err != nil {
		if charged {
			s.cancelCharge(rec.TransactionRef, order.ID)
		}
		return PaymentResult{}, err
	}
	order.Status = models.OrderStatusCompleted

	log.Printf("💳 Payment %d (%s, %s) completed order %d", rec.ID, method, amount.StringFixed(2), order.ID)

	result := PaymentResult{Payment: rec}
	if method == models.PaymentGCash || method == models.PaymentBank {
		qr, err := payment.QRDataURL(payment.QRPayload(method, rec.TransactionRef, amount, s.currency))
		if err != nil {
			log.Printf("⚠️ QR code for payment %d failed: %v", rec.ID, err)
		}
		result.QRCode = qr
	}

	if s.mailer != nil {
		go func(to string, order models.Order, p models.Payment) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.mailer.SendOrderConfirmation(ctx, to, order, p); err != nil {
				log.Printf("⚠️ Confirmation mail for order %d failed: %v", order.ID, err)
			}
		}(customer.Email, order, rec)
	}
	if s.events != nil {
		s.events.PaymentCompleted(events.PaymentCompleted{
			PaymentID:      rec.ID,
			OrderID:        order.ID,
			Method:         method,
			Amount:         amount,
			TransactionRef: rec.TransactionRef,
			PaidAt:         rec.PaymentDate,
		})
	}
	return result, nil
}

// cancelCharge voids a processor charge whose payment lost the race to another one.
func (s *PaymentService) cancelCharge(ref string, orderID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.gateway.Cancel(ctx, ref); err != nil {
		log.Printf("⚠️ Charge %s for order %d left dangling: %v", ref, orderID, err)
		return
	}
	log.Printf("↩️ Charge %s for order %d cancelled, order already paid", ref, orderID)
}

// validateCard accepts a full 16 digit number or the last four digits alone, and returns only the last four.
func validateCard(card *CardDetails) (last4, holder string, err error) {
	if card == nil {
		return "", "", ValidationError("card_details are required for card payments")
	}
	holder = strings.TrimSpace(card.CardHolder)
	if holder == "" {
		return "", "", ValidationError("card holder name is required")
	}

	if card.CardNumber != "" {
		digits, err := utils.ValidateCardNumber(card.CardNumber)
		if err != nil {
			return "", "", ValidationError("%s", err.Error())
		}
		return utils.CardLast4(digits), holder, nil
	}

	digits, err := utils.StripCardNumber(card.Last4)
	if err != nil || len(digits) != 4 {
		return "", "", ValidationError("card_details must carry a 16 digit card number or its last four digits")
	}
	return digits, holder, nil
}
