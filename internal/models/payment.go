package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCredit = "credit"
	PaymentDebit  = "debit"
	PaymentPaypal = "paypal"
	PaymentGCash  = "gcash"
	PaymentBank   = "bank"

	PaymentStatusCompleted = "Completed"
)

var PaymentMethods = []string{PaymentCredit, PaymentDebit, PaymentPaypal, PaymentGCash, PaymentBank}

func IsCardMethod(method string) bool {
	return method == PaymentCredit || method == PaymentDebit
}

type Payment struct {
	ID             uint            `json:"payment_id" gorm:"column:payment_id;primaryKey"`
	OrderID        uint            `json:"order_id" gorm:"not null;index"`
	PaymentMethod  string          `json:"payment_method" gorm:"size:20;not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:numeric(10,2);not null"`
	PaymentStatus  string          `json:"payment_status" gorm:"size:20;not null"`
	CardLast4      *string         `json:"card_last4,omitempty" gorm:"size:4"`
	CardHolder     *string         `json:"card_holder,omitempty" gorm:"size:200"`
	TransactionRef string          `json:"transaction_ref" gorm:"size:100"`
	PaymentDate    time.Time       `json:"payment_date" gorm:"autoCreateTime"`

	Order *Order `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Payment) TableName() string { return "payments" }
