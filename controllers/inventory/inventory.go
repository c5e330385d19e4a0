package inventoryControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/shadowhen89/storefront-api/models"
	"github.com/shadowhen89/storefront-api/store"
)

type ItemInput struct {
	Name       string `json:"name" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"required"`
	Stock      int    `json:"stock"`
	CategoryID uint   `json:"category_id"`
}

// GET /user/items?category_id=n
func GetItems(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categoryID uint64
		if raw := c.Query("category_id"); raw != "" {
			var err error
			if categoryID, err = strconv.ParseUint(raw, 10, 32); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
		}

		items, err := s.ListItems(uint(categoryID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GET /user/items/:id
func GetItemByID(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}

		item, err := s.GetItem(uint(id))
		if err != nil {
			respondItemError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// POST /admin/items
func CreateItem(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.PriceCents < 0 || input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock must not be negative"})
			return
		}

		item := models.InventoryItem{
			Name:       input.Name,
			PriceCents: input.PriceCents,
			Stock:      input.Stock,
			CategoryID: input.CategoryID,
		}
		if err := s.CreateItem(&item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// PUT /admin/items/:id
func UpdateItem(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}

		var input ItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.PriceCents < 0 || input.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price and stock must not be negative"})
			return
		}

		item := models.InventoryItem{
			ID:         uint(id),
			Name:       input.Name,
			PriceCents: input.PriceCents,
			Stock:      input.Stock,
			CategoryID: input.CategoryID,
		}
		if err := s.UpdateItem(&item); err != nil {
			respondItemError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /admin/items/:id
func DeleteItem(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item id"})
			return
		}

		if err := s.DeleteItem(uint(id)); err != nil {
			respondItemError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item deleted"})
	}
}

func respondItemError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Inventory operation failed"})
}
