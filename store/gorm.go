package store

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shadowhen89/storefront-api/models"
)

// Gorm is the production Store backed by a relational database. Open the
// gorm.DB with TranslateError so constraint violations are classified into
// distinct kinds instead of disappearing into a generic failure.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm { return &Gorm{db: db} }

var _ Store = (*Gorm)(nil)

// Migrate creates or updates the five storefront tables.
func (s *Gorm) Migrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.InventoryItem{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// -------- Users --------

func (s *Gorm) CreateUser(user *models.User) error {
	if err := s.db.Omit("CartItems", "Orders").Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateUser
		}
		return errors.Wrap(err, "create user")
	}
	return nil
}

func (s *Gorm) GetUser(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "fetch user")
	}
	return &user, nil
}

func (s *Gorm) UpdatePaymentInfo(username, paymentInfo string) error {
	return s.updateUserColumn(username, "payment_info", paymentInfo)
}

func (s *Gorm) UpdateShippingAddress(username, shippingAddress string) error {
	return s.updateUserColumn(username, "shipping_address", shippingAddress)
}

func (s *Gorm) updateUserColumn(username, column string, value interface{}) error {
	res := s.db.Model(&models.User{}).Where("username = ?", username).Update(column, value)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update %s", column)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the account and everything attached to it: order
// items, orders, cart rows, then the user itself, in one transaction.
func (s *Gorm) DeleteUser(username string) error {
	if _, err := s.GetUser(username); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&models.OrderItem{}).Error; err != nil {
			return errors.Wrap(err, "delete order items")
		}
		if err := tx.Where("username = ?", username).Delete(&models.Order{}).Error; err != nil {
			return errors.Wrap(err, "delete orders")
		}
		if err := tx.Where("username = ?", username).Delete(&models.CartItem{}).Error; err != nil {
			return errors.Wrap(err, "delete cart items")
		}
		if err := tx.Where("username = ?", username).Delete(&models.User{}).Error; err != nil {
			return errors.Wrap(err, "delete user")
		}
		return nil
	})
}

// -------- Inventory --------

func (s *Gorm) CreateItem(item *models.InventoryItem) error {
	return errors.Wrap(s.db.Create(item).Error, "create item")
}

func (s *Gorm) GetItem(id uint) (*models.InventoryItem, error) {
	return s.getItem(s.db, id)
}

func (s *Gorm) GetItemForUpdate(id uint) (*models.InventoryItem, error) {
	return s.getItem(s.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *Gorm) getItem(db *gorm.DB, id uint) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, errors.Wrap(err, "fetch item")
	}
	return &item, nil
}

// ListItems returns the catalog, optionally filtered by category. A zero
// categoryID means all categories.
func (s *Gorm) ListItems(categoryID uint) ([]models.InventoryItem, error) {
	q := s.db.Order("id")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var items []models.InventoryItem
	if err := q.Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "list inventory")
	}
	return items, nil
}

func (s *Gorm) UpdateItem(item *models.InventoryItem) error {
	res := s.db.Model(&models.InventoryItem{}).Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"name":        item.Name,
			"price_cents": item.PriceCents,
			"stock":       item.Stock,
			"category_id": item.CategoryID,
		})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update item")
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Gorm) SetStock(id uint, stock int) error {
	res := s.db.Model(&models.InventoryItem{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update stock")
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *Gorm) DeleteItem(id uint) error {
	res := s.db.Where("id = ?", id).Delete(&models.InventoryItem{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete item")
	}
	if res.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

// -------- Cart --------

func (s *Gorm) GetCartItem(username string, itemID uint) (*models.CartItem, error) {
	var row models.CartItem
	err := s.db.Where("username = ? AND item_id = ?", username, itemID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotInCart
		}
		return nil, errors.Wrap(err, "fetch cart item")
	}
	return &row, nil
}

func (s *Gorm) CreateCartItem(item *models.CartItem) error {
	return errors.Wrap(s.db.Create(item).Error, "create cart item")
}

func (s *Gorm) SetCartQuantity(username string, itemID uint, quantity int) error {
	res := s.db.Model(&models.CartItem{}).
		Where("username = ? AND item_id = ?", username, itemID).
		Update("quantity", quantity)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update cart quantity")
	}
	if res.RowsAffected == 0 {
		return ErrItemNotInCart
	}
	return nil
}

func (s *Gorm) DeleteCartItem(username string, itemID uint) error {
	res := s.db.Where("username = ? AND item_id = ?", username, itemID).Delete(&models.CartItem{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete cart item")
	}
	if res.RowsAffected == 0 {
		return ErrItemNotInCart
	}
	return nil
}

func (s *Gorm) ClearCart(username string) error {
	err := s.db.Where("username = ?", username).Delete(&models.CartItem{}).Error
	return errors.Wrap(err, "clear cart")
}

func (s *Gorm) CartLines(username string) ([]CartLine, error) {
	var lines []CartLine
	err := s.db.Table("cart_items").
		Select("cart_items.item_id, inventory.name, inventory.price_cents, cart_items.quantity, inventory.stock").
		Joins("JOIN inventory ON inventory.id = cart_items.item_id").
		Where("cart_items.username = ?", username).
		Order("cart_items.item_id").
		Scan(&lines).Error
	if err != nil {
		return nil, errors.Wrap(err, "fetch cart lines")
	}
	return lines, nil
}

func (s *Gorm) CartIsEmpty(username string) (bool, error) {
	var n int64
	if err := s.db.Model(&models.CartItem{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "count cart items")
	}
	return n == 0, nil
}

// -------- Orders --------

// NextOrderID is max(existing)+1 for the user, or 0 when no orders exist.
// Two concurrent checkouts can still read the same value; the composite
// primary key on orders turns the loser's insert into ErrOrderConflict.
func (s *Gorm) NextOrderID(username string) (uint, error) {
	var maxID int64
	err := s.db.Model(&models.Order{}).
		Where("username = ?", username).
		Select("COALESCE(MAX(order_id), -1)").
		Scan(&maxID).Error
	if err != nil {
		return 0, errors.Wrap(err, "scan max order id")
	}
	return uint(maxID + 1), nil
}

func (s *Gorm) CreateOrder(order *models.Order) error {
	if err := s.db.Omit("Items").Create(order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrOrderConflict
		}
		return errors.Wrap(err, "create order")
	}
	return nil
}

func (s *Gorm) CreateOrderItems(items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return errors.Wrap(s.db.Create(&items).Error, "create order items")
}

func (s *Gorm) HistoryRows(username string) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := s.db.Table("order_items").
		Select(`order_items.order_id, order_items.line_num, orders.order_date,
			order_items.item_id, inventory.name, order_items.quantity, order_items.price_cents`).
		Joins("JOIN orders ON orders.username = order_items.username AND orders.order_id = order_items.order_id").
		Joins("LEFT JOIN inventory ON inventory.id = order_items.item_id").
		Where("order_items.username = ?", username).
		Order("order_items.order_id, order_items.line_num").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "fetch order history")
	}
	return rows, nil
}

// -------- Transactions --------

func (s *Gorm) Transact(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}
