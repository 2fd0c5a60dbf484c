package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type CartRepo interface {
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Cart, error)
	// GetOrCreateForOwner returns the owner's open cart, creating one when
	// none exists.
	GetOrCreateForOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*types.Cart, error)
	// RecomputeTotals rewrites the cart aggregates from its committed line
	// items so they can never drift from the item set.
	RecomputeTotals(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) (*types.Cart, error)
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	repoLog := baseLog.With("repo", "CartRepo")
	return &cartRepo{db: db, log: repoLog}
}

func (cr *cartRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Cart
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

func (cr *cartRepo) GetOrCreateForOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var cart types.Cart
	err := transaction.WithContext(ctx).
		Where("owner_id = ? AND status = ?", ownerID, types.CartStatusOpen).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = types.Cart{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Status:  types.CartStatusOpen,
	}
	if err := transaction.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (cr *cartRepo) RecomputeTotals(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var subtotal float64
	if err := transaction.WithContext(ctx).
		Model(&types.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(SUM(line_total), 0)").
		Scan(&subtotal).Error; err != nil {
		return nil, err
	}

	var cart types.Cart
	if err := transaction.WithContext(ctx).
		Where("id = ?", cartID).
		First(&cart).Error; err != nil {
		return nil, err
	}

	cart.Subtotal = subtotal
	cart.Total = subtotal
	if err := transaction.WithContext(ctx).
		Model(&types.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]interface{}{"subtotal": subtotal, "total": subtotal}).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}
