package service

import (
	"context"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/events"
	"gizmohub_back_end/internal/models"
)

type OrderItemInput struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderInput struct {
	CustomerID uint
	Items      []OrderItemInput
	// Total is the client-computed grand total. It may include tax but never undercut the subtotal.
	Total *decimal.Decimal
}

type OrderService struct {
	db       *gorm.DB
	taxRate  decimal.Decimal
	catalog  CatalogCache
	notifier CartNotifier
	events   EventPublisher
}

func NewOrderService(db *gorm.DB, taxRate decimal.Decimal) *OrderService {
	return &OrderService{db: db, taxRate: taxRate}
}

func (s *OrderService) WithCatalogCache(c CatalogCache) *OrderService {
	s.catalog = c
	return s
}

func (s *OrderService) WithNotifier(n CartNotifier) *OrderService {
	s.notifier = n
	return s
}

func (s *OrderService) WithEvents(p EventPublisher) *OrderService {
	s.events = p
	return s
}

// CreateOrder turns the given lines, or the customer's cart when none are given, into a Pending order.
// Order, items, stock and cart change in one transaction; any failure leaves all four untouched.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (models.Order, error) {
	if in.CustomerID == 0 {
		return models.Order{}, ValidationError("customer_id is required")
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("customer_id = ?", in.CustomerID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound("customer")
		}

		lines := in.Items
		if len(lines) == 0 {
			var err error
			if lines, err = cartLines(tx, in.CustomerID); err != nil {
				return err
			}
		}
		lines, err := mergeLines(lines)
		if err != nil {
			return err
		}

		items, subtotal, err := priceLines(tx, lines)
		if err != nil {
			return err
		}

		total := subtotal.Add(subtotal.Mul(s.taxRate).Round(2))
		if in.Total != nil {
			if in.Total.Round(2).LessThan(subtotal) {
				return ValidationError("total %s is below the order subtotal %s", in.Total.StringFixed(2), subtotal.StringFixed(2))
			}
			total = in.Total.Round(2)
		}

		order = models.Order{CustomerID: in.CustomerID, Total: total, Status: models.OrderStatusPending}
		if err := tx.Omit("Items").Create(&order).Error; err != nil {
			return err
		}

		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		order.Items = items

		for _, it := range items {
			res := tx.Model(&models.Product{}).
				Where("product_id = ? AND stock >= ?", *it.ProductID, it.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return newError(ErrInsufficientStock, "insufficient stock for %s", it.ProductName)
			}
		}

		return tx.Where("customer_id = ?", in.CustomerID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return models.Order{}, err
	}

	log.Printf("🧾 Order %d created for customer %d (%s)", order.ID, order.CustomerID, order.Total.StringFixed(2))

	if s.catalog != nil {
		s.catalog.Invalidate(ctx, cache.ProductsKey)
	}
	if s.notifier != nil {
		s.notifier.CartChanged(ctx, in.CustomerID, cache.CartEventCleared)
	}
	if s.events != nil {
		s.events.OrderCreated(events.OrderCreated{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Total:      order.Total,
			ItemCount:  len(order.Items),
			CreatedAt:  order.OrderDate,
		})
	}
	return order, nil
}

func cartLines(tx *gorm.DB, customerID uint) ([]OrderItemInput, error) {
	var rows []models.CartItem
	if err := tx.Where("customer_id = ?", customerID).Order("cart_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]OrderItemInput, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, OrderItemInput{ProductID: r.ProductID, Quantity: r.Quantity})
	}
	return lines, nil
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(lines []OrderItemInput) ([]OrderItemInput, error) {
	if len(lines) == 0 {
		return nil, ValidationError("cart is empty")
	}
	pos := map[uint]int{}
	merged := make([]OrderItemInput, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == 0 {
			return nil, ValidationError("product_id is required for every item")
		}
		if l.Quantity <= 0 {
			return nil, ValidationError("quantity must be positive")
		}
		if i, ok := pos[l.ProductID]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}
		pos[l.ProductID] = len(merged)
		merged = append(merged, l)
	}
	return merged, nil
}

// priceLines snapshots the current name and price of every product.
func priceLines(tx *gorm.DB, lines []OrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	var products []models.Product
	if err := tx.Where("product_id IN ?", ids).Find(&products).Error; err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, decimal.Zero, newError(ErrNotFound, "product %d not found", l.ProductID)
		}
		productID := p.ID
		item := models.OrderItem{
			ProductID:   &productID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			Price:       p.Price,
		}
		subtotal = subtotal.Add(item.Subtotal())
		items = append(items, item)
	}
	return items, subtotal, nil
}

// History lists a customer's orders, newest first, with their items.
func (s *OrderService) History(ctx context.Context, customerID uint) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_item_id") }).
		Where("customer_id = ?", customerID).
		Order("order_date DESC, order_id DESC").
		Find(&orders).Error
	return orders, err
}
