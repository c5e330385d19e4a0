package store

import "errors"

// Error kinds surfaced by the storefront data layer. Validation failures
// come back as-is; transactional work wraps them with context, so callers
// match with errors.Is.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUser     = errors.New("user already exists")
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrItemNotInCart     = errors.New("item not in cart")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrNegativeQuantity  = errors.New("removal exceeds quantity in cart")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOrderConflict     = errors.New("order id already taken")
	ErrOrderNotFound     = errors.New("order not found")
)
