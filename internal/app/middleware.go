package app

import (
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/middleware"
)

type Middleware struct {
	Identity *middleware.IdentityMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Identity: middleware.NewIdentityMiddleware(log, cfg.JWTSecretKey),
	}
}
