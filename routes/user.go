package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shadowhen89/storefront-api/cart"
	"github.com/shadowhen89/storefront-api/checkout"
	"github.com/shadowhen89/storefront-api/config"
	cartControllers "github.com/shadowhen89/storefront-api/controllers/cart"
	inventoryControllers "github.com/shadowhen89/storefront-api/controllers/inventory"
	orderControllers "github.com/shadowhen89/storefront-api/controllers/order"
	userControllers "github.com/shadowhen89/storefront-api/controllers/user"
	"github.com/shadowhen89/storefront-api/middleware"
	"github.com/shadowhen89/storefront-api/store"
)

// SetupUserRoutes registers all "/user/*" endpoints behind the JWT
// middleware.
func SetupUserRoutes(r *gin.Engine, s store.Store, cfg config.Config) {
	carts := cart.NewManager(s)
	checkouts := checkout.NewService(s)

	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		// ---------------- Account ----------------
		userGroup.GET("/", userControllers.GetAccount(s))
		userGroup.PUT("/", userControllers.UpdateAccount(s))
		userGroup.DELETE("/", userControllers.DeleteAccount(s))

		// ---------------- Shopping cart ----------------
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCart(carts))
			cartGroup.POST("/", cartControllers.AddItem(carts))
			cartGroup.DELETE("/:item_id", cartControllers.RemoveItem(carts))
			cartGroup.DELETE("/", cartControllers.ClearCart(s))
		}

		// ---------------- Checkout & orders ----------------
		userGroup.POST("/checkout", orderControllers.CheckoutHandler(s, checkouts))
		userGroup.GET("/orders", orderControllers.GetOrderHistory(checkouts))

		// ---------------- Browse inventory ----------------
		userGroup.GET("/items", inventoryControllers.GetItems(s))
		userGroup.GET("/items/:id", inventoryControllers.GetItemByID(s))
	}
}
