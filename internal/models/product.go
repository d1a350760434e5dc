package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             uint            `json:"product_id" gorm:"column:product_id;primaryKey"`
	Name           string          `json:"name" gorm:"size:255;not null"`
	Description    string          `json:"description" gorm:"type:text"`
	Price          decimal.Decimal `json:"price" gorm:"type:numeric(10,2);not null"`
	Stock          int             `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	Image          string          `json:"image" gorm:"size:500"`
	CategoryID     *uint           `json:"category_id" gorm:"index"`
	BrandID        *uint           `json:"brand_id" gorm:"index"`
	Specifications string          `json:"specifications" gorm:"type:text"`
	Pros           string          `json:"pros" gorm:"type:text"`
	Cons           string          `json:"cons" gorm:"type:text"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Filled by the LEFT JOIN in catalog reads, never written.
	CategoryName *string `json:"category_name" gorm:"->;-:migration"`
	BrandName    *string `json:"brand_name" gorm:"->;-:migration"`

	Category *Category `json:"-" gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Brand    *Brand    `json:"-" gorm:"foreignKey:BrandID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Product) TableName() string { return "products" }
