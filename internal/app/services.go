package app

import (
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/clients/redis"
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/services"
)

type Services struct {
	Builder services.BuilderService
	Catalog services.CatalogService
	Booking services.BookingService
	Review  services.ReviewService
}

func wireServices(db *gorm.DB, log *logger.Logger, reposet Repos, ruleCache redis.RuleCache) Services {
	log.Info("Wiring services...")
	return Services{
		Builder: services.NewBuilderService(
			db, log,
			reposet.Component,
			reposet.CompatibilityRule,
			reposet.SavedBuild,
			reposet.Cart,
			reposet.CartItem,
			ruleCache,
		),
		Catalog: services.NewCatalogService(db, log, reposet.Component, reposet.CompatibilityRule, ruleCache),
		Booking: services.NewBookingService(db, log, reposet.Booking),
		Review:  services.NewReviewService(db, log, reposet.Review, reposet.Component),
	}
}
