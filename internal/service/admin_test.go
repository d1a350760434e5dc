package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCountsOnlyCompletedRevenue(t *testing.T) {
	f := newFixture(t)
	paid := placeOrder(t, f, f.customer)
	placeOrder(t, f, f.other)

	_, err := NewPaymentService(f.db, "php").CreatePayment(context.Background(), customerActor(f.customer),
		CreatePaymentInput{OrderID: paid.ID, Method: "gcash"})
	require.NoError(t, err)

	stats, err := NewAdminService(f.db, 20).Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalProducts)
	assert.EqualValues(t, 2, stats.TotalCustomers)
	assert.EqualValues(t, 2, stats.TotalOrders)
	assert.Equal(t, "25", stats.TotalRevenue.String())
}

func TestStatsOnEmptyStore(t *testing.T) {
	f := newFixture(t)
	stats, err := NewAdminService(f.db, 20).Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Zero(t, stats.TotalOrders)
}

func TestLowStockSortedAscending(t *testing.T) {
	f := newFixture(t)
	f.addProduct(t, "Plenty", "1.00", 50, nil, nil)
	f.addProduct(t, "Few", "1.00", 7, &f.laptops, nil)
	f.addProduct(t, "None", "1.00", 0, nil, &f.acme)
	f.addProduct(t, "Edge", "1.00", 20, nil, nil)

	products, err := NewAdminService(f.db, 20).LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "None", products[0].Name)
	assert.Equal(t, "Few", products[1].Name)
	require.NotNil(t, products[1].CategoryName)
	assert.Equal(t, "Laptops", *products[1].CategoryName)
}
