package models

import "time"

type Category struct {
	ID        uint      `json:"category_id" gorm:"column:category_id;primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Category) TableName() string { return "categories" }

type Brand struct {
	ID        uint      `json:"brand_id" gorm:"column:brand_id;primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (Brand) TableName() string { return "brands" }
