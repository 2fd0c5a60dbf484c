package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/requestdata"
	"github.com/velinpetkov/techlane-backend/internal/services"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type BookingHandler struct {
	log        *logger.Logger
	bookingSvc services.BookingService
}

func NewBookingHandler(log *logger.Logger, bookingSvc services.BookingService) *BookingHandler {
	return &BookingHandler{
		log:        log.With("handler", "BookingHandler"),
		bookingSvc: bookingSvc,
	}
}

// POST /api/v1/bookings
// Anonymous bookings are allowed; contact details carry the identity.
func (bh *BookingHandler) CreateBooking(c *gin.Context) {
	var booking types.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	if owner := requestdata.OwnerID(c.Request.Context()); owner != uuid.Nil {
		booking.OwnerID = &owner
	}

	created, err := bh.bookingSvc.CreateBooking(c.Request.Context(), nil, &booking)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondCreated(c, created)
}

// GET /api/v1/bookings
func (bh *BookingHandler) ListOwnBookings(c *gin.Context) {
	owner := requestdata.OwnerID(c.Request.Context())
	bookings, err := bh.bookingSvc.ListOwnBookings(c.Request.Context(), nil, owner)
	if err != nil {
		if errors.Is(err, services.ErrOwnerRequired) {
			RespondError(c, http.StatusUnauthorized, CodeAuthRequired, err)
			return
		}
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, gin.H{"bookings": bookings})
}
