package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/velinpetkov/techlane-backend/internal/handlers"
	"github.com/velinpetkov/techlane-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins     []string
	IdentityMiddleware *middleware.IdentityMiddleware
	BuilderHandler     *handlers.BuilderHandler
	CatalogHandler     *handlers.CatalogHandler
	BookingHandler     *handlers.BookingHandler
	ReviewHandler      *handlers.ReviewHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", handlers.HealthCheck)

	api := router.Group("/api/v1", cfg.IdentityMiddleware.Identify())
	{
		// Catalog
		api.GET("/components", cfg.CatalogHandler.ListComponents)
		api.GET("/components/:id", cfg.CatalogHandler.GetComponent)
		api.GET("/components/:id/reviews", cfg.ReviewHandler.ListForComponent)
		api.POST("/components/:id/reviews", cfg.ReviewHandler.AddReview)

		// Builder
		builder := api.Group("/builder")
		{
			builder.POST("/validate", cfg.BuilderHandler.Validate)
			builder.POST("/price", cfg.BuilderHandler.Price)
			builder.POST("/quote", cfg.BuilderHandler.Quote)
			builder.POST("/builds", cfg.BuilderHandler.SaveBuild)
			builder.GET("/builds", cfg.IdentityMiddleware.RequireOwner(), cfg.BuilderHandler.ListBuilds)
			builder.POST("/checkout", cfg.IdentityMiddleware.RequireOwner(), cfg.BuilderHandler.Checkout)
		}

		// Service bookings
		api.POST("/bookings", cfg.BookingHandler.CreateBooking)
		api.GET("/bookings", cfg.IdentityMiddleware.RequireOwner(), cfg.BookingHandler.ListOwnBookings)

		// Admin
		admin := api.Group("/admin", cfg.IdentityMiddleware.RequireOwner())
		{
			admin.POST("/components", cfg.CatalogHandler.CreateComponent)
			admin.PUT("/components/:id", cfg.CatalogHandler.UpdateComponent)
			admin.GET("/rules", cfg.CatalogHandler.ListRules)
			admin.POST("/rules", cfg.CatalogHandler.CreateRule)
			admin.PUT("/rules/:id", cfg.CatalogHandler.UpdateRule)
		}
	}

	return router
}

// SplitOrigins parses a comma-separated origin list from configuration.
func SplitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
