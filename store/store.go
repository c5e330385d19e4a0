package store

import (
	"time"

	"github.com/shadowhen89/storefront-api/models"
)

// CartLine is a cart row joined with current inventory.
type CartLine struct {
	ItemID     uint   `json:"item_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int    `json:"quantity"`
	Stock      int    `json:"-"`
}

// HistoryRow is one order_items row joined with its order header and the
// current item name. Rows come back sorted by (order id, line number).
type HistoryRow struct {
	OrderID    uint
	LineNum    int
	OrderDate  time.Time
	ItemID     uint
	Name       string
	Quantity   int
	PriceCents int64
}

// Store is the storefront's data-access surface. There is no package-level
// handle; callers hold a Store value and pass it down.
type Store interface {
	// users
	CreateUser(user *models.User) error
	GetUser(username string) (*models.User, error)
	UpdatePaymentInfo(username, paymentInfo string) error
	UpdateShippingAddress(username, shippingAddress string) error
	DeleteUser(username string) error

	// inventory
	CreateItem(item *models.InventoryItem) error
	GetItem(id uint) (*models.InventoryItem, error)
	// GetItemForUpdate row-locks the item for the duration of the enclosing
	// transaction, so concurrent checkouts serialize on the stock decrement.
	GetItemForUpdate(id uint) (*models.InventoryItem, error)
	ListItems(categoryID uint) ([]models.InventoryItem, error)
	UpdateItem(item *models.InventoryItem) error
	SetStock(id uint, stock int) error
	DeleteItem(id uint) error

	// cart
	GetCartItem(username string, itemID uint) (*models.CartItem, error)
	CreateCartItem(item *models.CartItem) error
	SetCartQuantity(username string, itemID uint, quantity int) error
	DeleteCartItem(username string, itemID uint) error
	ClearCart(username string) error
	CartLines(username string) ([]CartLine, error)
	CartIsEmpty(username string) (bool, error)

	// orders
	NextOrderID(username string) (uint, error)
	CreateOrder(order *models.Order) error
	CreateOrderItems(items []models.OrderItem) error
	HistoryRows(username string) ([]HistoryRow, error)

	// Transact runs fn against a store bound to a single transaction. Any
	// error aborts the transaction; no partial state stays observable.
	Transact(fn func(Store) error) error
}
