package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadowhen89/storefront-api/cart"
	"github.com/shadowhen89/storefront-api/memstore"
	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/store"
)

func setup(t *testing.T) (*cart.Manager, *memstore.Store, models.InventoryItem) {
	t.Helper()
	s, err := memstore.New()
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(&models.User{Username: "alice", PasswordHash: "x"}))

	item := models.InventoryItem{Name: "notebook", PriceCents: 750, Stock: 20}
	require.NoError(t, s.CreateItem(&item))

	return cart.NewManager(s), s, item
}

func TestAdd(t *testing.T) {
	m, s, item := setup(t)

	t.Run("creates the line with the given quantity", func(t *testing.T) {
		require.NoError(t, m.Add("alice", item.ID, 2))

		row, err := s.GetCartItem("alice", item.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, row.Quantity)
	})

	t.Run("accumulates onto the existing line", func(t *testing.T) {
		require.NoError(t, m.Add("alice", item.ID, 3))

		row, err := s.GetCartItem("alice", item.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, row.Quantity)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.ErrorIs(t, m.Add("alice", item.ID, 0), store.ErrInvalidQuantity)
		assert.ErrorIs(t, m.Add("alice", item.ID, -1), store.ErrInvalidQuantity)
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.ErrorIs(t, m.Add("nobody", item.ID, 1), store.ErrUserNotFound)
	})

	t.Run("unknown item", func(t *testing.T) {
		assert.ErrorIs(t, m.Add("alice", 999, 1), store.ErrItemNotFound)
	})
}

func TestRemove(t *testing.T) {
	m, s, item := setup(t)
	require.NoError(t, m.Add("alice", item.ID, 5))

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.ErrorIs(t, m.Remove("alice", item.ID, 0), store.ErrInvalidQuantity)
	})

	t.Run("partial removal updates the line", func(t *testing.T) {
		require.NoError(t, m.Remove("alice", item.ID, 2))

		row, err := s.GetCartItem("alice", item.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, row.Quantity)
	})

	t.Run("removing more than held fails and leaves the row unchanged", func(t *testing.T) {
		assert.ErrorIs(t, m.Remove("alice", item.ID, 4), store.ErrNegativeQuantity)

		row, err := s.GetCartItem("alice", item.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, row.Quantity)
	})

	t.Run("removing the exact quantity deletes the row", func(t *testing.T) {
		require.NoError(t, m.Remove("alice", item.ID, 3))

		_, err := s.GetCartItem("alice", item.ID)
		assert.ErrorIs(t, err, store.ErrItemNotInCart)
	})

	t.Run("removing from an absent line fails", func(t *testing.T) {
		assert.ErrorIs(t, m.Remove("alice", item.ID, 1), store.ErrItemNotInCart)
	})
}

func TestItemsAndIsEmpty(t *testing.T) {
	m, s, item := setup(t)

	empty, err := m.IsEmpty("alice")
	require.NoError(t, err)
	assert.True(t, empty)

	other := models.InventoryItem{Name: "pencil", PriceCents: 120, Stock: 50}
	require.NoError(t, s.CreateItem(&other))

	require.NoError(t, m.Add("alice", item.ID, 1))
	require.NoError(t, m.Add("alice", other.ID, 4))

	lines, err := m.Items("alice")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, item.ID, lines[0].ItemID)
	assert.Equal(t, "notebook", lines[0].Name)
	assert.Equal(t, other.ID, lines[1].ItemID)
	assert.Equal(t, 4, lines[1].Quantity)

	empty, err = m.IsEmpty("alice")
	require.NoError(t, err)
	assert.False(t, empty)
}
