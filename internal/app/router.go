package app

import (
	"github.com/gin-gonic/gin"

	"github.com/velinpetkov/techlane-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins:     server.SplitOrigins(cfg.AllowedOrigins),
		IdentityMiddleware: middlewareset.Identity,
		BuilderHandler:     handlerset.Builder,
		CatalogHandler:     handlerset.Catalog,
		BookingHandler:     handlerset.Booking,
		ReviewHandler:      handlerset.Review,
	})
}
