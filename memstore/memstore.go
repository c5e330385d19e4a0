// Package memstore keeps the storefront tables in a go-memdb database.
// Writes go through real memdb transactions, so an aborted Transact leaves
// no partial state behind. It backs the unit tests and the server's
// "memory" store driver.
package memstore

import (
	"sort"
	"sync"
	"time"

	memdb "github.com/hashicorp/go-memdb"
	"github.com/pkg/errors"

	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/store"
)

type Store struct {
	db  *memdb.MemDB
	seq *sequence
	txn *memdb.Txn // set when bound inside Transact
}

var _ store.Store = (*Store)(nil)

func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, errors.Wrap(err, "build memdb schema")
	}
	return &Store{db: db, seq: &sequence{}}, nil
}

func schema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"users": {
				Name: "users",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true,
						Indexer: &memdb.StringFieldIndex{Field: "Username"}},
				},
			},
			"inventory": {
				Name: "inventory",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true,
						Indexer: &memdb.UintFieldIndex{Field: "ID"}},
				},
			},
			"cart_items": {
				Name: "cart_items",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Username"},
							&memdb.UintFieldIndex{Field: "ItemID"},
						}}},
					"username": {Name: "username",
						Indexer: &memdb.StringFieldIndex{Field: "Username"}},
				},
			},
			"orders": {
				Name: "orders",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Username"},
							&memdb.UintFieldIndex{Field: "OrderID"},
						}}},
					"username": {Name: "username",
						Indexer: &memdb.StringFieldIndex{Field: "Username"}},
				},
			},
			"order_items": {
				Name: "order_items",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {Name: "id", Unique: true,
						Indexer: &memdb.CompoundIndex{Indexes: []memdb.Indexer{
							&memdb.StringFieldIndex{Field: "Username"},
							&memdb.UintFieldIndex{Field: "OrderID"},
							&memdb.IntFieldIndex{Field: "LineNum"},
						}}},
					"username": {Name: "username",
						Indexer: &memdb.StringFieldIndex{Field: "Username"}},
				},
			},
		},
	}
}

// sequence hands out inventory ids; memdb has no autoincrement columns.
type sequence struct {
	mu   sync.Mutex
	last uint
}

func (q *sequence) next() uint {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.last++
	return q.last
}

func (q *sequence) claim(id uint) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if id > q.last {
		q.last = id
	}
}

// write runs fn in the bound transaction, or in a fresh one committed on
// success and aborted on error.
func (s *Store) write(fn func(txn *memdb.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	txn := s.db.Txn(true)
	if err := fn(txn); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}

func (s *Store) read(fn func(txn *memdb.Txn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	txn := s.db.Txn(false)
	defer txn.Abort()
	return fn(txn)
}

// Transact opens one write transaction for the whole of fn. A nested call
// joins the transaction already in flight.
func (s *Store) Transact(fn func(store.Store) error) error {
	if s.txn != nil {
		return fn(s)
	}
	txn := s.db.Txn(true)
	bound := &Store{db: s.db, seq: s.seq, txn: txn}
	if err := fn(bound); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()
	return nil
}

// -------- Users --------

func (s *Store) CreateUser(user *models.User) error {
	return s.write(func(txn *memdb.Txn) error {
		existing, err := txn.First("users", "id", user.Username)
		if err != nil {
			return errors.Wrap(err, "lookup user")
		}
		if existing != nil {
			return store.ErrDuplicateUser
		}
		cp := *user
		cp.CartItems, cp.Orders = nil, nil
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = time.Now()
		}
		return errors.Wrap(txn.Insert("users", &cp), "insert user")
	})
}

func (s *Store) GetUser(username string) (*models.User, error) {
	var user *models.User
	err := s.read(func(txn *memdb.Txn) error {
		raw, err := txn.First("users", "id", username)
		if err != nil {
			return errors.Wrap(err, "lookup user")
		}
		if raw == nil {
			return store.ErrUserNotFound
		}
		cp := *raw.(*models.User)
		user = &cp
		return nil
	})
	return user, err
}

func (s *Store) UpdatePaymentInfo(username, paymentInfo string) error {
	return s.updateUser(username, func(u *models.User) { u.PaymentInfo = paymentInfo })
}

func (s *Store) UpdateShippingAddress(username, shippingAddress string) error {
	return s.updateUser(username, func(u *models.User) { u.ShippingAddress = shippingAddress })
}

func (s *Store) updateUser(username string, mutate func(*models.User)) error {
	return s.write(func(txn *memdb.Txn) error {
		raw, err := txn.First("users", "id", username)
		if err != nil {
			return errors.Wrap(err, "lookup user")
		}
		if raw == nil {
			return store.ErrUserNotFound
		}
		cp := *raw.(*models.User)
		mutate(&cp)
		return errors.Wrap(txn.Insert("users", &cp), "update user")
	})
}

func (s *Store) DeleteUser(username string) error {
	return s.write(func(txn *memdb.Txn) error {
		raw, err := txn.First("users", "id", username)
		if err != nil {
			return errors.Wrap(err, "lookup user")
		}
		if raw == nil {
			return store.ErrUserNotFound
		}
		for _, table := range []string{"order_items", "orders", "cart_items"} {
			if _, err := txn.DeleteAll(table, "username", username); err != nil {
				return errors.Wrapf(err, "cascade delete %s", table)
			}
		}
		return errors.Wrap(txn.Delete("users", raw), "delete user")
	})
}

// -------- Inventory --------

func (s *Store) CreateItem(item *models.InventoryItem) error {
	return s.write(func(txn *memdb.Txn) error {
		if item.ID == 0 {
			item.ID = s.seq.next()
		} else {
			existing, err := txn.First("inventory", "id", item.ID)
			if err != nil {
				return errors.Wrap(err, "lookup item")
			}
			if existing != nil {
				return errors.Errorf("item id %d already exists", item.ID)
			}
			s.seq.claim(item.ID)
		}
		cp := *item
		return errors.Wrap(txn.Insert("inventory", &cp), "insert item")
	})
}

func (s *Store) GetItem(id uint) (*models.InventoryItem, error) {
	var item *models.InventoryItem
	err := s.read(func(txn *memdb.Txn) error {
		got, err := s.getItem(txn, id)
		if err != nil {
			return err
		}
		item = got
		return nil
	})
	return item, err
}

// GetItemForUpdate is plain GetItem here: memdb has a single writer, so a
// write transaction already serializes the decrement.
func (s *Store) GetItemForUpdate(id uint) (*models.InventoryItem, error) {
	return s.GetItem(id)
}

func (s *Store) getItem(txn *memdb.Txn, id uint) (*models.InventoryItem, error) {
	raw, err := txn.First("inventory", "id", id)
	if err != nil {
		return nil, errors.Wrap(err, "lookup item")
	}
	if raw == nil {
		return nil, store.ErrItemNotFound
	}
	cp := *raw.(*models.InventoryItem)
	return &cp, nil
}

func (s *Store) ListItems(categoryID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.read(func(txn *memdb.Txn) error {
		it, err := txn.Get("inventory", "id")
		if err != nil {
			return errors.Wrap(err, "scan inventory")
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			item := *raw.(*models.InventoryItem)
			if categoryID != 0 && item.CategoryID != categoryID {
				continue
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *Store) UpdateItem(item *models.InventoryItem) error {
	return s.write(func(txn *memdb.Txn) error {
		if _, err := s.getItem(txn, item.ID); err != nil {
			return err
		}
		cp := *item
		return errors.Wrap(txn.Insert("inventory", &cp), "update item")
	})
}

func (s *Store) SetStock(id uint, stock int) error {
	return s.write(func(txn *memdb.Txn) error {
		item, err := s.getItem(txn, id)
		if err != nil {
			return err
		}
		item.Stock = stock
		return errors.Wrap(txn.Insert("inventory", item), "update stock")
	})
}

func (s *Store) DeleteItem(id uint) error {
	return s.write(func(txn *memdb.Txn) error {
		raw, err := txn.First("inventory", "id", id)
		if err != nil {
			return errors.Wrap(err, "lookup item")
		}
		if raw == nil {
			return store.ErrItemNotFound
		}
		return errors.Wrap(txn.Delete("inventory", raw), "delete item")
	})
}

// -------- Cart --------

func (s *Store) GetCartItem(username string, itemID uint) (*models.CartItem, error) {
	var row *models.CartItem
	err := s.read(func(txn *memdb.Txn) error {
		raw, err := txn.First("cart_items", "id", username, itemID)
		if err != nil {
			return errors.Wrap(err, "lookup cart item")
		}
		if raw == nil {
			return store.ErrItemNotInCart
		}
		cp := *raw.(*models.CartItem)
		row = &cp
		return nil
	})
	return row, err
}

func (s *Store) CreateCartItem(item *models.CartItem) error {
	return s.write(func(txn *memdb.Txn) error {
		cp := *item
		if cp.AddedAt.IsZero() {
			cp.AddedAt = time.Now()
		}
		return errors.Wrap(txn.Insert("cart_items", &cp), "insert cart item")
	})
}

func (s *Store) SetCartQuantity(username string, itemID uint, quantity int) error {
	return s.write(func(txn *memdb.Txn) error {
		raw, err := txn.First("cart_items", "id", username, itemID)
		if err != nil {
			return errors.Wrap(err, "lookup cart item")
		}
		if raw == nil {
			return store.ErrItemNotInCart
		}
		cp := *raw.(*models.CartItem)
		cp.Quantity = quantity
		return errors.Wrap(txn.Insert("cart_items", &cp), "update cart item")
	})
}

func (s *Store) DeleteCartItem(username string, itemID uint) error {
	return s.write(func(txn *memdb.Txn) error {
		raw, err := txn.First("cart_items", "id", username, itemID)
		if err != nil {
			return errors.Wrap(err, "lookup cart item")
		}
		if raw == nil {
			return store.ErrItemNotInCart
		}
		return errors.Wrap(txn.Delete("cart_items", raw), "delete cart item")
	})
}

func (s *Store) ClearCart(username string) error {
	return s.write(func(txn *memdb.Txn) error {
		_, err := txn.DeleteAll("cart_items", "username", username)
		return errors.Wrap(err, "clear cart")
	})
}

func (s *Store) CartLines(username string) ([]store.CartLine, error) {
	var lines []store.CartLine
	err := s.read(func(txn *memdb.Txn) error {
		it, err := txn.Get("cart_items", "username", username)
		if err != nil {
			return errors.Wrap(err, "scan cart")
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			row := raw.(*models.CartItem)
			item, err := s.getItem(txn, row.ItemID)
			if err != nil {
				return err
			}
			lines = append(lines, store.CartLine{
				ItemID:     row.ItemID,
				Name:       item.Name,
				PriceCents: item.PriceCents,
				Quantity:   row.Quantity,
				Stock:      item.Stock,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	return lines, nil
}

func (s *Store) CartIsEmpty(username string) (bool, error) {
	empty := true
	err := s.read(func(txn *memdb.Txn) error {
		raw, err := txn.First("cart_items", "username", username)
		if err != nil {
			return errors.Wrap(err, "lookup cart")
		}
		empty = raw == nil
		return nil
	})
	return empty, err
}

// -------- Orders --------

func (s *Store) NextOrderID(username string) (uint, error) {
	next := uint(0)
	err := s.read(func(txn *memdb.Txn) error {
		it, err := txn.Get("orders", "username", username)
		if err != nil {
			return errors.Wrap(err, "scan orders")
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			if id := raw.(*models.Order).OrderID; id+1 > next {
				next = id + 1
			}
		}
		return nil
	})
	return next, err
}

func (s *Store) CreateOrder(order *models.Order) error {
	return s.write(func(txn *memdb.Txn) error {
		existing, err := txn.First("orders", "id", order.Username, order.OrderID)
		if err != nil {
			return errors.Wrap(err, "lookup order")
		}
		if existing != nil {
			return store.ErrOrderConflict
		}
		cp := *order
		cp.Items = nil
		return errors.Wrap(txn.Insert("orders", &cp), "insert order")
	})
}

func (s *Store) CreateOrderItems(items []models.OrderItem) error {
	return s.write(func(txn *memdb.Txn) error {
		for i := range items {
			cp := items[i]
			if err := txn.Insert("order_items", &cp); err != nil {
				return errors.Wrap(err, "insert order item")
			}
		}
		return nil
	})
}

func (s *Store) HistoryRows(username string) ([]store.HistoryRow, error) {
	var rows []store.HistoryRow
	err := s.read(func(txn *memdb.Txn) error {
		it, err := txn.Get("order_items", "username", username)
		if err != nil {
			return errors.Wrap(err, "scan order items")
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			oi := raw.(*models.OrderItem)
			row := store.HistoryRow{
				OrderID:    oi.OrderID,
				LineNum:    oi.LineNum,
				ItemID:     oi.ItemID,
				Quantity:   oi.Quantity,
				PriceCents: oi.PriceCents,
			}
			if rawOrder, err := txn.First("orders", "id", username, oi.OrderID); err != nil {
				return errors.Wrap(err, "lookup order")
			} else if rawOrder != nil {
				row.OrderDate = rawOrder.(*models.Order).OrderDate
			}
			// items removed from the catalog keep an empty name
			if rawItem, err := txn.First("inventory", "id", oi.ItemID); err != nil {
				return errors.Wrap(err, "lookup item")
			} else if rawItem != nil {
				row.Name = rawItem.(*models.InventoryItem).Name
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].OrderID != rows[j].OrderID {
			return rows[i].OrderID < rows[j].OrderID
		}
		return rows[i].LineNum < rows[j].LineNum
	})
	return rows, nil
}
