package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/shadowhen89/storefront-api/store"
)

type UpdateAccountInput struct {
	PaymentInfo     *string `json:"payment_info"`
	ShippingAddress *string `json:"shipping_address"`
}

func currentUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get("username")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return v.(string), true
}

// GET /user
func GetAccount(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		user, err := s.GetUser(username)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch account"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"username":         user.Username,
			"payment_info":     user.PaymentInfo,
			"shipping_address": user.ShippingAddress,
			"created_at":       user.CreatedAt,
		})
	}
}

// PUT /user
func UpdateAccount(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		var input UpdateAccountInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.PaymentInfo != nil {
			if err := s.UpdatePaymentInfo(username, *input.PaymentInfo); err != nil {
				respondUserError(c, err)
				return
			}
		}
		if input.ShippingAddress != nil {
			if err := s.UpdateShippingAddress(username, *input.ShippingAddress); err != nil {
				respondUserError(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Account updated"})
	}
}

// DELETE /user
func DeleteAccount(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		if err := s.DeleteUser(username); err != nil {
			respondUserError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
	}
}

func respondUserError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Account operation failed"})
}
