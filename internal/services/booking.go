package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/repos"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

var validServiceTypes = map[string]bool{
	"repair":       true,
	"consultation": true,
	"assembly":     true,
	"diagnostics":  true,
	"upgrade":      true,
}

type BookingService interface {
	CreateBooking(ctx context.Context, tx *gorm.DB, booking *types.Booking) (*types.Booking, error)
	ListOwnBookings(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Booking, error)
}

type bookingService struct {
	db          *gorm.DB
	log         *logger.Logger
	bookingRepo repos.BookingRepo
}

func NewBookingService(db *gorm.DB, baseLog *logger.Logger, bookingRepo repos.BookingRepo) BookingService {
	serviceLog := baseLog.With("service", "BookingService")
	return &bookingService{db: db, log: serviceLog, bookingRepo: bookingRepo}
}

func (bs *bookingService) CreateBooking(ctx context.Context, tx *gorm.DB, booking *types.Booking) (*types.Booking, error) {
	if booking == nil {
		return nil, fmt.Errorf("booking required")
	}
	if booking.ContactName == "" {
		return nil, fmt.Errorf("contact name required")
	}
	if booking.Phone == "" {
		return nil, fmt.Errorf("phone required")
	}
	if !validServiceTypes[booking.ServiceType] {
		return nil, fmt.Errorf("unknown service type %q", booking.ServiceType)
	}
	if booking.ScheduledAt.Before(time.Now()) {
		return nil, fmt.Errorf("scheduled time must be in the future")
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.Status = types.BookingStatusPending
	if booking.OwnerID != nil && *booking.OwnerID == uuid.Nil {
		booking.OwnerID = nil
	}

	created, err := bs.bookingRepo.Create(ctx, tx, []*types.Booking{booking})
	if err != nil {
		bs.log.Error("CreateBooking failed", "error", err)
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return created[0], nil
}

func (bs *bookingService) ListOwnBookings(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Booking, error) {
	if ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	return bs.bookingRepo.ListByOwner(ctx, tx, ownerID)
}
