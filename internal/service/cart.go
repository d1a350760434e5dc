package service

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/models"
)

// CartService owns the server-side cart. Every mutation answers with the fresh cart.
type CartService struct {
	db       *gorm.DB
	taxRate  decimal.Decimal
	notifier CartNotifier
}

func NewCartService(db *gorm.DB, taxRate decimal.Decimal) *CartService {
	return &CartService{db: db, taxRate: taxRate}
}

func (s *CartService) WithNotifier(n CartNotifier) *CartService {
	s.notifier = n
	return s
}

func (s *CartService) Get(ctx context.Context, customerID uint) (models.Cart, error) {
	lines := []models.CartLine{}
	err := s.db.WithContext(ctx).
		Table("cart").
		Select("cart.cart_id AS id, cart.customer_id, cart.product_id, cart.quantity, " +
			"products.name, products.price, products.image, products.stock, categories.name AS category_name").
		Joins("JOIN products ON products.product_id = cart.product_id").
		Joins("LEFT JOIN categories ON categories.category_id = products.category_id").
		Where("cart.customer_id = ?", customerID).
		Order("cart.cart_id").
		Scan(&lines).Error
	if err != nil {
		return models.Cart{}, err
	}
	return summarize(customerID, lines, s.taxRate), nil
}

func summarize(customerID uint, lines []models.CartLine, taxRate decimal.Decimal) models.Cart {
	cart := models.Cart{CustomerID: customerID, Items: lines, Subtotal: decimal.Zero}
	for _, l := range lines {
		cart.Count += l.Quantity
		cart.Subtotal = cart.Subtotal.Add(l.LineTotal())
	}
	cart.Tax = cart.Subtotal.Mul(taxRate).Round(2)
	cart.Total = cart.Subtotal.Add(cart.Tax)
	return cart
}

// Add increments the quantity of an existing line or inserts a new one, in a single upsert.
func (s *CartService) Add(ctx context.Context, customerID, productID uint, quantity int) (models.Cart, error) {
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return models.Cart{}, ValidationError("quantity must be positive")
	}
	if customerID == 0 || productID == 0 {
		return models.Cart{}, ValidationError("customer_id and product_id are required")
	}

	if err := s.exists(ctx, &models.Customer{}, "customer_id", customerID, "customer"); err != nil {
		return models.Cart{}, err
	}
	if err := s.exists(ctx, &models.Product{}, "product_id", productID, "product"); err != nil {
		return models.Cart{}, err
	}

	item := models.CartItem{CustomerID: customerID, ProductID: productID, Quantity: quantity}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error
	if err != nil {
		return models.Cart{}, err
	}

	log.Printf("🛒 Customer %d added %d x product %d", customerID, quantity, productID)
	return s.changed(ctx, customerID, cache.CartEventUpdated)
}

// UpdateQuantity overwrites the quantity; zero or less removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, actor Actor, cartID uint, quantity int) (models.Cart, error) {
	item, err := s.line(ctx, actor, cartID)
	if err != nil {
		return models.Cart{}, err
	}

	if quantity <= 0 {
		err = s.db.WithContext(ctx).Delete(&models.CartItem{}, cartID).Error
	} else {
		err = s.db.WithContext(ctx).Model(&models.CartItem{}).Where("cart_id = ?", cartID).Update("quantity", quantity).Error
	}
	if err != nil {
		return models.Cart{}, err
	}
	return s.changed(ctx, item.CustomerID, cache.CartEventUpdated)
}

func (s *CartService) Remove(ctx context.Context, actor Actor, cartID uint) (models.Cart, error) {
	item, err := s.line(ctx, actor, cartID)
	if err != nil {
		return models.Cart{}, err
	}
	if err := s.db.WithContext(ctx).Delete(&models.CartItem{}, cartID).Error; err != nil {
		return models.Cart{}, err
	}
	return s.changed(ctx, item.CustomerID, cache.CartEventUpdated)
}

func (s *CartService) Clear(ctx context.Context, customerID uint) (models.Cart, error) {
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.CartItem{}).Error; err != nil {
		return models.Cart{}, err
	}
	return s.changed(ctx, customerID, cache.CartEventCleared)
}

func (s *CartService) line(ctx context.Context, actor Actor, cartID uint) (models.CartItem, error) {
	var item models.CartItem
	if err := s.db.WithContext(ctx).First(&item, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return item, notFound("cart item")
		}
		return item, err
	}
	if !actor.CanActFor(item.CustomerID) {
		return item, ErrForbidden
	}
	return item, nil
}

func (s *CartService) changed(ctx context.Context, customerID uint, event string) (models.Cart, error) {
	if s.notifier != nil {
		s.notifier.CartChanged(ctx, customerID, event)
	}
	return s.Get(ctx, customerID)
}

func (s *CartService) exists(ctx context.Context, model any, column string, id uint, what string) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(model).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFound(what)
	}
	return nil
}
