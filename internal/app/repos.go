package app

import (
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/repos"
)

type Repos struct {
	Component         repos.ComponentRepo
	CompatibilityRule repos.CompatibilityRuleRepo
	SavedBuild        repos.SavedBuildRepo
	Cart              repos.CartRepo
	CartItem          repos.CartItemRepo
	Booking           repos.BookingRepo
	Review            repos.ReviewRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Component:         repos.NewComponentRepo(db, log),
		CompatibilityRule: repos.NewCompatibilityRuleRepo(db, log),
		SavedBuild:        repos.NewSavedBuildRepo(db, log),
		Cart:              repos.NewCartRepo(db, log),
		CartItem:          repos.NewCartItemRepo(db, log),
		Booking:           repos.NewBookingRepo(db, log),
		Review:            repos.NewReviewRepo(db, log),
	}
}
