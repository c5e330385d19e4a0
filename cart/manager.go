package cart

import (
	"time"

	"github.com/pkg/errors"

	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/store"
)

// Manager owns the cart line operations for one store handle.
type Manager struct {
	store store.Store
}

func NewManager(s store.Store) *Manager { return &Manager{store: s} }

// Add puts qty of an item into the user's cart, accumulating onto any
// existing line. The read-modify-write runs in one transaction.
func (m *Manager) Add(username string, itemID uint, qty int) error {
	if qty <= 0 {
		return store.ErrInvalidQuantity
	}
	return m.store.Transact(func(tx store.Store) error {
		if _, err := tx.GetUser(username); err != nil {
			return err
		}
		if _, err := tx.GetItem(itemID); err != nil {
			return err
		}
		existing, err := tx.GetCartItem(username, itemID)
		if errors.Is(err, store.ErrItemNotInCart) {
			return tx.CreateCartItem(&models.CartItem{
				Username: username,
				ItemID:   itemID,
				Quantity: qty,
				AddedAt:  time.Now(),
			})
		}
		if err != nil {
			return err
		}
		return tx.SetCartQuantity(username, itemID, existing.Quantity+qty)
	})
}

// Remove takes qty of an item back out. Removing the full quantity deletes
// the line; removing more than is there is rejected, never clamped.
func (m *Manager) Remove(username string, itemID uint, qty int) error {
	if qty <= 0 {
		return store.ErrInvalidQuantity
	}
	return m.store.Transact(func(tx store.Store) error {
		existing, err := tx.GetCartItem(username, itemID)
		if err != nil {
			return err
		}
		remaining := existing.Quantity - qty
		switch {
		case remaining == 0:
			return tx.DeleteCartItem(username, itemID)
		case remaining > 0:
			return tx.SetCartQuantity(username, itemID, remaining)
		default:
			return store.ErrNegativeQuantity
		}
	})
}

// Items returns the cart joined with current inventory names and prices.
func (m *Manager) Items(username string) ([]store.CartLine, error) {
	return m.store.CartLines(username)
}

func (m *Manager) IsEmpty(username string) (bool, error) {
	return m.store.CartIsEmpty(username)
}
