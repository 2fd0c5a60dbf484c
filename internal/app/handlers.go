package app

import (
	"github.com/velinpetkov/techlane-backend/internal/handlers"
	"github.com/velinpetkov/techlane-backend/internal/logger"
)

type Handlers struct {
	Builder *handlers.BuilderHandler
	Catalog *handlers.CatalogHandler
	Booking *handlers.BookingHandler
	Review  *handlers.ReviewHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Builder: handlers.NewBuilderHandler(log, serviceset.Builder),
		Catalog: handlers.NewCatalogHandler(log, serviceset.Catalog),
		Booking: handlers.NewBookingHandler(log, serviceset.Booking),
		Review:  handlers.NewReviewHandler(log, serviceset.Review),
	}
}
