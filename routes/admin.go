package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shadowhen89/storefront-api/checkout"
	"github.com/shadowhen89/storefront-api/config"
	inventoryControllers "github.com/shadowhen89/storefront-api/controllers/inventory"
	orderControllers "github.com/shadowhen89/storefront-api/controllers/order"
	"github.com/shadowhen89/storefront-api/middleware"
	"github.com/shadowhen89/storefront-api/store"
)

// SetupAdminRoutes registers all "/admin/*" endpoints behind the API key
// middleware.
func SetupAdminRoutes(r *gin.Engine, s store.Store, cfg config.Config) {
	checkouts := checkout.NewService(s)

	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(cfg.AdminAPIKey))
	{
		adminGroup.POST("/items", inventoryControllers.CreateItem(s))
		adminGroup.PUT("/items/:id", inventoryControllers.UpdateItem(s))
		adminGroup.DELETE("/items/:id", inventoryControllers.DeleteItem(s))

		adminGroup.GET("/users/:username/orders", orderControllers.GetUserOrderHistory(checkouts))
	}
}
