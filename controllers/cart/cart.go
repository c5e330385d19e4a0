package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/shadowhen89/storefront-api/cart"
	"github.com/shadowhen89/storefront-api/store"
)

type CartItemInput struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

func currentUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get("username")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return v.(string), true
}

// GET /user/cart
func GetCart(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		lines, err := m.Items(username)
		if err != nil {
			respondCartError(c, err)
			return
		}

		var totalCents int64
		for _, line := range lines {
			totalCents += line.PriceCents * int64(line.Quantity)
		}

		c.JSON(http.StatusOK, gin.H{
			"items":       lines,
			"total_cents": totalCents,
			"empty":       len(lines) == 0,
		})
	}
}

// POST /user/cart
func AddItem(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if err := m.Add(username, input.ItemID, input.Quantity); err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
	}
}

// DELETE /user/cart/:item_id?quantity=n
func RemoveItem(m *cart.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}
		qty, err := strconv.Atoi(c.DefaultQuery("quantity", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
			return
		}

		if err := m.Remove(username, uint(itemID), qty); err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /user/cart
func ClearCart(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		if err := s.ClearCart(username); err != nil {
			respondCartError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

func respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, store.ErrItemNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Item does not exist"})
	case errors.Is(err, store.ErrItemNotInCart):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not in cart"})
	case errors.Is(err, store.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
	case errors.Is(err, store.ErrNegativeQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot remove more than the cart holds"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart operation failed"})
	}
}
