package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type CompatibilityRuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rules []*types.CompatibilityRule) ([]*types.CompatibilityRule, error)
	Update(ctx context.Context, tx *gorm.DB, rule *types.CompatibilityRule) (*types.CompatibilityRule, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CompatibilityRule, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.CompatibilityRule, error)
	// ListActive returns the point-in-time snapshot of rules that
	// participate in evaluation, in stable creation order.
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.CompatibilityRule, error)
}

type compatibilityRuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompatibilityRuleRepo(db *gorm.DB, baseLog *logger.Logger) CompatibilityRuleRepo {
	repoLog := baseLog.With("repo", "CompatibilityRuleRepo")
	return &compatibilityRuleRepo{db: db, log: repoLog}
}

func (rr *compatibilityRuleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.CompatibilityRule) ([]*types.CompatibilityRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if len(rules) == 0 {
		return []*types.CompatibilityRule{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (rr *compatibilityRuleRepo) Update(ctx context.Context, tx *gorm.DB, rule *types.CompatibilityRule) (*types.CompatibilityRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).Save(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

func (rr *compatibilityRuleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CompatibilityRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.CompatibilityRule
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

func (rr *compatibilityRuleRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.CompatibilityRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.CompatibilityRule
	if err := transaction.WithContext(ctx).
		Order("created_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *compatibilityRuleRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.CompatibilityRule, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.CompatibilityRule
	if err := transaction.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at, id").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
