// Package payment talks to the payment processors and renders payment QR codes.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

var ErrGateway = errors.New("payment gateway error")

type ChargeRequest struct {
	OrderID    uint
	Amount     decimal.Decimal
	Method     string
	CardHolder string
	Email      string
}

// StripeGateway creates one PaymentIntent per card payment.
type StripeGateway struct {
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	stripe.Key = secretKey
	log.Println("✅ Stripe initialised")
	return &StripeGateway{currency: currency}
}

// MinorUnits converts an amount to the integer cents Stripe expects.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Round(2).Shift(2).IntPart()
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(MinorUnits(req.Amount)),
		Currency: stripe.String(g.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id": strconv.FormatUint(uint64(req.OrderID), 10),
			"method":   req.Method,
		},
	}
	if req.Email != "" {
		params.ReceiptEmail = stripe.String(req.Email)
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}

	log.Printf("💳 PaymentIntent %s created for order %d (%s %s)", intent.ID, req.OrderID, req.Amount.StringFixed(2), g.currency)
	return intent.ID, nil
}

// Cancel voids a PaymentIntent that was created but never recorded.
func (g *StripeGateway) Cancel(ctx context.Context, ref string) error {
	params := &stripe.PaymentIntentCancelParams{
		CancellationReason: stripe.String(string(stripe.PaymentIntentCancellationReasonDuplicate)),
	}
	params.Context = ctx
	if _, err := paymentintent.Cancel(ref, params); err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return nil
}

// LocalGateway records the payment without a processor.
type LocalGateway struct{}

func (LocalGateway) Charge(_ context.Context, _ ChargeRequest) (string, error) {
	return "local_" + uuid.NewString(), nil
}

func (LocalGateway) Cancel(context.Context, string) error { return nil }
