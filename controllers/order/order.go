package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/shadowhen89/storefront-api/checkout"
	"github.com/shadowhen89/storefront-api/store"
)

// CheckoutRequest optionally overrides the snapshots taken from the
// account; empty fields fall back to the stored values.
type CheckoutRequest struct {
	PaymentInfo     string `json:"payment_info"`
	ShippingAddress string `json:"shipping_address"`
}

func currentUsername(c *gin.Context) (string, bool) {
	v, exists := c.Get("username")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return v.(string), true
}

// POST /user/checkout
func CheckoutHandler(s store.Store, svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}

		var req CheckoutRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
				return
			}
		}

		user, err := s.GetUser(username)
		if err != nil {
			respondOrderError(c, err)
			return
		}
		if req.PaymentInfo == "" {
			req.PaymentInfo = user.PaymentInfo
		}
		if req.ShippingAddress == "" {
			req.ShippingAddress = user.ShippingAddress
		}

		order, err := svc.Checkout(username, req.PaymentInfo, req.ShippingAddress)
		if err != nil {
			respondOrderError(c, err)
			return
		}

		log.WithFields(log.Fields{
			"username": username,
			"order_id": order.OrderID,
			"lines":    len(order.Items),
		}).Info("order placed")

		c.JSON(http.StatusCreated, order)
	}
}

// GET /user/orders
func GetOrderHistory(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, ok := currentUsername(c)
		if !ok {
			return
		}
		respondHistory(c, svc, username)
	}
}

// GET /admin/users/:username/orders
func GetUserOrderHistory(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.Param("username")
		if username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
			return
		}
		respondHistory(c, svc, username)
	}
}

func respondHistory(c *gin.Context, svc *checkout.Service, username string) {
	records, err := svc.History(username)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, store.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, store.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": "Insufficient stock: " + err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout failed"})
	}
}
