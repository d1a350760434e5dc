package service

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gizmohub_back_end/internal/models"
)

type AdminService struct {
	db                *gorm.DB
	lowStockThreshold int
}

func NewAdminService(db *gorm.DB, lowStockThreshold int) *AdminService {
	return &AdminService{db: db, lowStockThreshold: lowStockThreshold}
}

// Stats counts the catalog and customers; revenue only sums Completed orders.
func (s *AdminService) Stats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Customer{}).Count(&stats.TotalCustomers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return stats, err
	}

	var revenue decimal.NullDecimal
	err := db.Model(&models.Order{}).
		Select("SUM(total)").
		Where("status = ?", models.OrderStatusCompleted).
		Row().Scan(&revenue)
	if err != nil {
		return stats, err
	}
	stats.TotalRevenue = decimal.Zero
	if revenue.Valid {
		stats.TotalRevenue = revenue.Decimal.Round(2)
	}
	return stats, nil
}

func (s *AdminService) LowStock(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*, categories.name AS category_name, brands.name AS brand_name").
		Joins("LEFT JOIN categories ON categories.category_id = products.category_id").
		Joins("LEFT JOIN brands ON brands.brand_id = products.brand_id").
		Where("products.stock < ?", s.lowStockThreshold).
		Order("products.stock ASC, products.product_id").
		Scan(&products).Error
	return products, err
}
