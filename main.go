package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shadowhen89/storefront-api/config"
	"github.com/shadowhen89/storefront-api/memstore"
	"github.com/shadowhen89/storefront-api/middleware"
	"github.com/shadowhen89/storefront-api/routes"
	"github.com/shadowhen89/storefront-api/store"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("❌ Failed to load configuration")
	}

	st := initStore(cfg)

	r := gin.Default()
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, st, cfg)

	log.WithField("port", cfg.Port).Info("🚀 Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("❌ Failed to start server")
	}
}

// initStore opens the configured backend: Postgres via GORM, or the
// in-memory store for local development.
func initStore(cfg config.Config) store.Store {
	if cfg.StoreDriver == "memory" {
		st, err := memstore.New()
		if err != nil {
			log.WithError(err).Fatal("❌ Failed to build in-memory store")
		}
		log.Warn("Using in-memory store; data will not survive a restart")
		return st
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.WithError(err).Fatal("❌ DB connection failed")
	}

	st := store.NewGorm(db)
	if err := st.Migrate(); err != nil {
		log.WithError(err).Fatal("❌ AutoMigrate failed")
	}
	return st
}
