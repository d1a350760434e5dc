package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID         uint      `json:"cart_id" gorm:"column:cart_id;primaryKey"`
	CustomerID uint      `json:"customer_id" gorm:"not null;uniqueIndex:idx_cart_customer_product"`
	ProductID  uint      `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_customer_product"`
	Quantity   int       `json:"quantity" gorm:"not null;default:1;check:quantity >= 1"`
	AddedAt    time.Time `json:"added_at" gorm:"autoCreateTime"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
	Product  *Product  `json:"-" gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:CASCADE"`
}

func (CartItem) TableName() string { return "cart" }

// CartLine is a cart row joined with its product.
type CartLine struct {
	ID           uint            `json:"cart_id"`
	CustomerID   uint            `json:"customer_id"`
	ProductID    uint            `json:"product_id"`
	Quantity     int             `json:"quantity"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
	Stock        int             `json:"stock"`
	CategoryName *string         `json:"category_name"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is what every cart endpoint answers with.
type Cart struct {
	CustomerID uint            `json:"customer_id"`
	Items      []CartLine      `json:"items"`
	Count      int             `json:"count"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}
