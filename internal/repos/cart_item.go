package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type CartItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, items []*types.CartItem) ([]*types.CartItem, error)
	ListByCart(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error)
}

type cartItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartItemRepo(db *gorm.DB, baseLog *logger.Logger) CartItemRepo {
	repoLog := baseLog.With("repo", "CartItemRepo")
	return &cartItemRepo{db: db, log: repoLog}
}

func (ir *cartItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.CartItem) ([]*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if len(items) == 0 {
		return []*types.CartItem{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (ir *cartItemRepo) ListByCart(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) ([]*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.CartItem
	if err := transaction.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
