package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type BookingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bookings []*types.Booking) ([]*types.Booking, error)
	Update(ctx context.Context, tx *gorm.DB, booking *types.Booking) (*types.Booking, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Booking, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Booking, error)
}

type bookingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookingRepo(db *gorm.DB, baseLog *logger.Logger) BookingRepo {
	repoLog := baseLog.With("repo", "BookingRepo")
	return &bookingRepo{db: db, log: repoLog}
}

func (br *bookingRepo) Create(ctx context.Context, tx *gorm.DB, bookings []*types.Booking) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if len(bookings) == 0 {
		return []*types.Booking{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (br *bookingRepo) Update(ctx context.Context, tx *gorm.DB, booking *types.Booking) (*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if err := transaction.WithContext(ctx).Save(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (br *bookingRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.Booking
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *bookingRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Booking, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.Booking
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("scheduled_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
