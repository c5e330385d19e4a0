package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowhen89/storefront-api/cart"
	"github.com/shadowhen89/storefront-api/checkout"
	"github.com/shadowhen89/storefront-api/memstore"
	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/store"
)

type fixture struct {
	store    *memstore.Store
	carts    *cart.Manager
	checkout *checkout.Service
	itemA    models.InventoryItem
	itemB    models.InventoryItem
}

func setup(t *testing.T) *fixture {
	t.Helper()
	s, err := memstore.New()
	require.NoError(t, err)

	require.NoError(t, s.CreateUser(&models.User{
		Username:        "alice",
		PasswordHash:    "x",
		PaymentInfo:     "visa-1111",
		ShippingAddress: "1 Main St",
	}))

	f := &fixture{
		store:    s,
		carts:    cart.NewManager(s),
		checkout: checkout.NewService(s),
		itemA:    models.InventoryItem{Name: "mug", PriceCents: 1000, Stock: 5},
		itemB:    models.InventoryItem{Name: "pen", PriceCents: 500, Stock: 3},
	}
	require.NoError(t, s.CreateItem(&f.itemA))
	require.NoError(t, s.CreateItem(&f.itemB))
	return f
}

func (f *fixture) stock(t *testing.T, id uint) int {
	t.Helper()
	item, err := f.store.GetItem(id)
	require.NoError(t, err)
	return item.Stock
}

func TestCheckoutConvertsCartToOrder(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.carts.Add("alice", f.itemA.ID, 2))
	require.NoError(t, f.carts.Add("alice", f.itemB.ID, 1))

	order, err := f.checkout.Checkout("alice", "visa-1111", "1 Main St")
	require.NoError(t, err)

	assert.Equal(t, uint(0), order.OrderID, "first order id is 0")
	assert.Equal(t, "visa-1111", order.PaymentInfo)
	require.Len(t, order.Items, 2)

	assert.Equal(t, 0, order.Items[0].LineNum)
	assert.Equal(t, f.itemA.ID, order.Items[0].ItemID)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, int64(1000), order.Items[0].PriceCents)

	assert.Equal(t, 1, order.Items[1].LineNum)
	assert.Equal(t, f.itemB.ID, order.Items[1].ItemID)
	assert.Equal(t, 1, order.Items[1].Quantity)
	assert.Equal(t, int64(500), order.Items[1].PriceCents)

	assert.Equal(t, 3, f.stock(t, f.itemA.ID))
	assert.Equal(t, 2, f.stock(t, f.itemB.ID))

	empty, err := f.store.CartIsEmpty("alice")
	require.NoError(t, err)
	assert.True(t, empty, "checkout clears the cart")
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := setup(t)

	_, err := f.checkout.Checkout("alice", "", "")
	assert.ErrorIs(t, err, store.ErrEmptyCart)

	assert.Equal(t, 5, f.stock(t, f.itemA.ID))
	rows, err := f.store.HistoryRows("alice")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCheckoutUnknownUser(t *testing.T) {
	f := setup(t)
	_, err := f.checkout.Checkout("nobody", "", "")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestCheckoutInsufficientStockIsAtomic(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.carts.Add("alice", f.itemA.ID, 2))
	require.NoError(t, f.carts.Add("alice", f.itemB.ID, 4)) // stock is only 3

	_, err := f.checkout.Checkout("alice", "", "")
	require.ErrorIs(t, err, store.ErrInsufficientStock)

	// no order, no order items, cart unchanged, stock unchanged
	next, err := f.store.NextOrderID("alice")
	require.NoError(t, err)
	assert.Equal(t, uint(0), next, "no order row may exist")

	rows, err := f.store.HistoryRows("alice")
	require.NoError(t, err)
	assert.Empty(t, rows)

	lines, err := f.store.CartLines("alice")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 4, lines[1].Quantity)

	assert.Equal(t, 5, f.stock(t, f.itemA.ID))
	assert.Equal(t, 3, f.stock(t, f.itemB.ID))
}

func TestSequentialOrderIDsIncrease(t *testing.T) {
	f := setup(t)

	for want := uint(0); want < 3; want++ {
		require.NoError(t, f.carts.Add("alice", f.itemA.ID, 1))
		order, err := f.checkout.Checkout("alice", "", "")
		require.NoError(t, err)
		assert.Equal(t, want, order.OrderID)
	}
}

func TestOrderItemsAreFrozenSnapshots(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.carts.Add("alice", f.itemA.ID, 1))
	_, err := f.checkout.Checkout("alice", "", "")
	require.NoError(t, err)

	// a later price change must not leak into past orders
	updated := f.itemA
	updated.PriceCents = 9999
	updated.Stock = 4
	require.NoError(t, f.store.UpdateItem(&updated))

	records, err := f.checkout.History("alice")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Len(t, records[0].Items, 1)
	assert.Equal(t, int64(1000), records[0].Items[0].PriceCents)
}

func TestHistoryGroupsByOrderID(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.carts.Add("alice", f.itemA.ID, 2))
	require.NoError(t, f.carts.Add("alice", f.itemB.ID, 1))
	_, err := f.checkout.Checkout("alice", "", "")
	require.NoError(t, err)

	require.NoError(t, f.carts.Add("alice", f.itemA.ID, 1))
	_, err = f.checkout.Checkout("alice", "", "")
	require.NoError(t, err)

	records, err := f.checkout.History("alice")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, uint(0), records[0].OrderID)
	require.Len(t, records[0].Items, 2)
	assert.Equal(t, "mug", records[0].Items[0].Name)
	assert.Equal(t, "pen", records[0].Items[1].Name)
	assert.Equal(t, int64(2500), records[0].TotalCents)

	assert.Equal(t, uint(1), records[1].OrderID)
	require.Len(t, records[1].Items, 1)
	assert.Equal(t, int64(1000), records[1].TotalCents)

	// exactly partitioned: every row accounted for once
	total := 0
	for _, rec := range records {
		total += len(rec.Items)
	}
	rows, err := f.store.HistoryRows("alice")
	require.NoError(t, err)
	assert.Equal(t, len(rows), total)
}

func TestHistoryUnknownUser(t *testing.T) {
	f := setup(t)
	_, err := f.checkout.History("nobody")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
