package checkout

import (
	"time"

	"github.com/pkg/errors"

	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/store"
)

// maxAttempts bounds the retry when two checkouts for the same user race on
// the next order id and the loser's insert hits the (username, order_id)
// key.
const maxAttempts = 3

// Service converts carts into orders and reads order history.
type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service { return &Service{store: s} }

// Checkout turns the user's whole cart into one order: a frozen copy of
// every cart line at current prices, stock decremented, cart cleared. The
// conversion happens in a single transaction; any failure leaves no trace.
func (s *Service) Checkout(username, paymentInfo, shippingAddress string) (*models.Order, error) {
	if _, err := s.store.GetUser(username); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		order, err := s.checkoutOnce(username, paymentInfo, shippingAddress)
		if errors.Is(err, store.ErrOrderConflict) && attempt < maxAttempts {
			continue
		}
		return order, err
	}
}

func (s *Service) checkoutOnce(username, paymentInfo, shippingAddress string) (*models.Order, error) {
	var placed *models.Order
	err := s.store.Transact(func(tx store.Store) error {
		lines, err := tx.CartLines(username)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return store.ErrEmptyCart
		}

		orderID, err := tx.NextOrderID(username)
		if err != nil {
			return err
		}

		order := models.Order{
			Username:        username,
			OrderID:         orderID,
			OrderDate:       time.Now(),
			PaymentInfo:     paymentInfo,
			ShippingAddress: shippingAddress,
		}
		if err := tx.CreateOrder(&order); err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for lineNum, line := range lines {
			items = append(items, models.OrderItem{
				Username:   username,
				OrderID:    orderID,
				LineNum:    lineNum,
				ItemID:     line.ItemID,
				Quantity:   line.Quantity,
				PriceCents: line.PriceCents,
			})
		}
		if err := tx.CreateOrderItems(items); err != nil {
			return err
		}

		if err := tx.ClearCart(username); err != nil {
			return err
		}

		for _, line := range lines {
			item, err := tx.GetItemForUpdate(line.ItemID)
			if err != nil {
				return err
			}
			if item.Stock < line.Quantity {
				return errors.Wrapf(store.ErrInsufficientStock, "item %d (%s)", item.ID, item.Name)
			}
			if err := tx.SetStock(item.ID, item.Stock-line.Quantity); err != nil {
				return err
			}
		}

		order.Items = items
		placed = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}
