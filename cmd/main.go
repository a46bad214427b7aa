package main

import (
	"fmt"
	"os"

	"github.com/halewick/tradeportal-backend/internal/clients/redis"
	"github.com/halewick/tradeportal-backend/internal/config"
	"github.com/halewick/tradeportal-backend/internal/db"
	"github.com/halewick/tradeportal-backend/internal/http/handlers"
	"github.com/halewick/tradeportal-backend/internal/http/middleware"
	"github.com/halewick/tradeportal-backend/internal/pkg/logger"
	"github.com/halewick/tradeportal-backend/internal/repos"
	"github.com/halewick/tradeportal-backend/internal/server"
	"github.com/halewick/tradeportal-backend/internal/services"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Logger
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	cartItemRepo := repos.NewCartItemRepo(thePG, log)

	// Tier cache (optional)
	var tierCache redis.TierCache
	if !cfg.Redis.Disabled && cfg.Redis.Addr != "" {
		tierCache, err = redis.NewTierCache(log, cfg.Redis.Addr, cfg.TierTTL())
		if err != nil {
			log.Warn("Tier cache unavailable, catalog reads go straight to Postgres", "error", err)
			tierCache = nil
		} else {
			defer tierCache.Close()
		}
	}

	// Services
	log.Info("Setting up services from main...")
	authService := services.NewAuthService(log, userRepo, cfg.JWT.Secret, cfg.TokenTTL())
	productService := services.NewProductService(log, productRepo, tierCache)
	cartService := services.NewCartService(log, cartItemRepo, productRepo, cfg.MutationTimeout())

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(log, cartService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		ProductHandler: productHandler,
		CartHandler:    cartHandler,
	})

	log.Info("Server listening", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server stopped", "error", err)
	}
}
