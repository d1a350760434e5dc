package service

import (
	"context"
	"io"
	"time"

	"gizmohub_back_end/internal/events"
	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/payment"
)

// Optional collaborators. A nil value disables the feature.

type CatalogCache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, value any)
	Invalidate(ctx context.Context, keys ...string)
}

type ProductIndex interface {
	Index(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, productID uint) error
	Search(ctx context.Context, query string, limit int) ([]uint, error)
}

type ImageStore interface {
	PutProductImage(ctx context.Context, productID uint, filename string, r io.Reader, size int64) (string, error)
}

type CartNotifier interface {
	CartChanged(ctx context.Context, customerID uint, event string)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type PaymentGateway interface {
	Charge(ctx context.Context, req payment.ChargeRequest) (string, error)
	Cancel(ctx context.Context, ref string) error
}

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order models.Order, payment models.Payment) error
}

type EventPublisher interface {
	OrderCreated(e events.OrderCreated)
	PaymentCompleted(e events.PaymentCompleted)
}
