package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/halewick/tradeportal-backend/internal/http/handlers"
	"github.com/halewick/tradeportal-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Catalog
	protected.GET("/products", cfg.ProductHandler.List)
	protected.GET("/products/:id", cfg.ProductHandler.Get)

	// Cart
	protected.GET("/cart", cfg.CartHandler.GetCart)
	protected.POST("/cart/items", cfg.CartHandler.AddItem)
	protected.POST("/cart/items/:id/increase", cfg.CartHandler.Increase)
	protected.POST("/cart/items/:id/decrease", cfg.CartHandler.Decrease)
	protected.PUT("/cart/items/:id/quantity", cfg.CartHandler.SetQuantity)
	protected.DELETE("/cart/items/:id", cfg.CartHandler.Remove)
	protected.DELETE("/cart", cfg.CartHandler.Clear)

	return router
}
