package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending   = "Pending"
	OrderStatusCompleted = "Completed"
)

type Order struct {
	ID         uint            `json:"order_id" gorm:"column:order_id;primaryKey"`
	CustomerID uint            `json:"customer_id" gorm:"not null;index"`
	Total      decimal.Decimal `json:"total" gorm:"type:numeric(10,2);not null"`
	Status     string          `json:"status" gorm:"size:20;not null"`
	OrderDate  time.Time       `json:"order_date" gorm:"autoCreateTime"`
	Items      []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`

	Customer *Customer `json:"-" gorm:"foreignKey:CustomerID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID          uint            `json:"order_item_id" gorm:"column:order_item_id;primaryKey"`
	OrderID     uint            `json:"order_id" gorm:"not null;index"`
	ProductID   *uint           `json:"product_id" gorm:"index"`
	ProductName string          `json:"product_name" gorm:"size:255"`
	Quantity    int             `json:"quantity" gorm:"not null;check:quantity >= 1"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`

	Product *Product `json:"-" gorm:"foreignKey:ProductID;references:ID;constraint:OnDelete:SET NULL"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
