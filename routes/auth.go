package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/shadowhen89/storefront-api/auth"
	"github.com/shadowhen89/storefront-api/config"
	"github.com/shadowhen89/storefront-api/store"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, s store.Store, cfg config.Config) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(s))
		authGroup.POST("/login", auth.Login(s, cfg.JWTSecret))
	}
}
