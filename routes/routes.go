package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shadowhen89/storefront-api/config"
	"github.com/shadowhen89/storefront-api/store"
)

// SetupRoutes is the single entry point that wires up the Auth, User, and
// Admin route groups.
func SetupRoutes(r *gin.Engine, s store.Store, cfg config.Config) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, s, cfg)

	// User routes (JWT-protected)
	SetupUserRoutes(r, s, cfg)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, s, cfg)
}
