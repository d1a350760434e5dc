package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/testutil"
	"gizmohub_back_end/internal/utils"
)

var taxRate = decimal.RequireFromString("0.08")

type fixture struct {
	db       *gorm.DB
	laptops  models.Category
	phones   models.Category
	acme     models.Brand
	globex   models.Brand
	customer models.Customer
	other    models.Customer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{db: db}

	f.laptops = models.Category{Name: "Laptops"}
	f.phones = models.Category{Name: "Phones"}
	require.NoError(t, db.Create(&f.laptops).Error)
	require.NoError(t, db.Create(&f.phones).Error)

	f.acme = models.Brand{Name: "Acme"}
	f.globex = models.Brand{Name: "Globex"}
	require.NoError(t, db.Create(&f.acme).Error)
	require.NoError(t, db.Create(&f.globex).Error)

	f.customer = f.addCustomer(t, "ana@example.com", "Ana", "secret1")
	f.other = f.addCustomer(t, "ben@example.com", "Ben", "secret2")
	return f
}

func (f *fixture) addCustomer(t *testing.T, email, firstName, password string) models.Customer {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	c := models.Customer{FirstName: firstName, LastName: "Test", Email: email, Password: hash}
	require.NoError(t, f.db.Create(&c).Error)
	return c
}

func (f *fixture) addProduct(t *testing.T, name, price string, stock int, category *models.Category, brand *models.Brand) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	if category != nil {
		p.CategoryID = &category.ID
	}
	if brand != nil {
		p.BrandID = &brand.ID
	}
	require.NoError(t, f.db.Create(&p).Error)
	return p
}

func (f *fixture) stock(t *testing.T, productID uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, f.db.First(&p, productID).Error)
	return p.Stock
}

func (f *fixture) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	q := f.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func customerActor(c models.Customer) Actor {
	return Actor{ID: c.ID, Role: models.RoleCustomer}
}

// --- fakes ---

type cartEvent struct {
	customerID uint
	event      string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []cartEvent
}

func (n *recordingNotifier) CartChanged(_ context.Context, customerID uint, event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, cartEvent{customerID, event})
}

type memoryCache struct {
	mu          sync.Mutex
	sets        map[string]int
	invalidated []string
}

func newMemoryCache() *memoryCache { return &memoryCache{sets: map[string]int{}} }

func (c *memoryCache) Get(context.Context, string, any) bool { return false }

func (c *memoryCache) Set(_ context.Context, key string, _ any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets[key]++
}

func (c *memoryCache) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, keys...)
}

type revocation struct {
	id  string
	ttl time.Duration
}

type recordingRevoker struct {
	revoked []revocation
}

func (r *recordingRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.revoked = append(r.revoked, revocation{id, ttl})
	return nil
}
