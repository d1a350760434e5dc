package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/models"
)

func TestAddToCartTwiceMergesRow(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Book Pro", "10.00", 5, &f.laptops, &f.acme)
	notifier := &recordingNotifier{}
	carts := NewCartService(f.db, taxRate).WithNotifier(notifier)
	ctx := context.Background()

	_, err := carts.Add(ctx, f.customer.ID, p.ID, 1)
	require.NoError(t, err)
	cart, err := carts.Add(ctx, f.customer.ID, p.ID, 0)
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.count(t, &models.CartItem{}, "customer_id = ?", f.customer.ID))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Book Pro", cart.Items[0].Name)
	require.NotNil(t, cart.Items[0].CategoryName)
	assert.Equal(t, "Laptops", *cart.Items[0].CategoryName)
	assert.Equal(t, 2, cart.Count)
	assert.Equal(t, "20", cart.Subtotal.String())
	assert.Equal(t, "1.6", cart.Tax.String())
	assert.Equal(t, "21.6", cart.Total.String())

	assert.Equal(t, []cartEvent{
		{f.customer.ID, cache.CartEventUpdated},
		{f.customer.ID, cache.CartEventUpdated},
	}, notifier.events)
}

func TestAddToCartRejectsUnknownProduct(t *testing.T) {
	f := newFixture(t)
	carts := NewCartService(f.db, taxRate)

	_, err := carts.Add(context.Background(), f.customer.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	p := f.addProduct(t, "Book Pro", "10.00", 5, nil, nil)
	_, err = carts.Add(context.Background(), 9999, p.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = carts.Add(context.Background(), f.customer.ID, p.ID, -2)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateQuantity(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Book Pro", "10.00", 5, nil, nil)
	carts := NewCartService(f.db, taxRate)
	ctx := context.Background()
	actor := customerActor(f.customer)

	cart, err := carts.Add(ctx, f.customer.ID, p.ID, 1)
	require.NoError(t, err)
	cartID := cart.Items[0].ID

	cart, err = carts.UpdateQuantity(ctx, actor, cartID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	cart, err = carts.UpdateQuantity(ctx, actor, cartID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total.IsZero())

	_, err = carts.UpdateQuantity(ctx, actor, cartID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartLineOwnership(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Book Pro", "10.00", 5, nil, nil)
	carts := NewCartService(f.db, taxRate)
	ctx := context.Background()

	cart, err := carts.Add(ctx, f.customer.ID, p.ID, 1)
	require.NoError(t, err)
	cartID := cart.Items[0].ID

	_, err = carts.Remove(ctx, customerActor(f.other), cartID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = carts.UpdateQuantity(ctx, customerActor(f.other), cartID, 3)
	assert.ErrorIs(t, err, ErrForbidden)

	cart, err = carts.Remove(ctx, Actor{ID: 1, Role: models.RoleAdmin}, cartID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestClearCartOnlyTouchesOneCustomer(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct(t, "A", "10.00", 5, nil, nil)
	b := f.addProduct(t, "B", "5.00", 5, nil, nil)
	notifier := &recordingNotifier{}
	carts := NewCartService(f.db, taxRate).WithNotifier(notifier)
	ctx := context.Background()

	for _, id := range []uint{a.ID, b.ID} {
		_, err := carts.Add(ctx, f.customer.ID, id, 1)
		require.NoError(t, err)
	}
	_, err := carts.Add(ctx, f.other.ID, a.ID, 1)
	require.NoError(t, err)

	cart, err := carts.Clear(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.NotNil(t, cart.Items)

	assert.EqualValues(t, 1, f.count(t, &models.CartItem{}, ""))
	assert.Equal(t, cartEvent{f.customer.ID, cache.CartEventCleared}, notifier.events[len(notifier.events)-1])
}
