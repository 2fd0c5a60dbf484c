package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

// SavedBuildRepo exposes create and read only. Saved builds are immutable
// snapshots; there is no update or delete path.
type SavedBuildRepo interface {
	Create(ctx context.Context, tx *gorm.DB, builds []*types.SavedBuild) ([]*types.SavedBuild, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SavedBuild, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.SavedBuild, error)
}

type savedBuildRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedBuildRepo(db *gorm.DB, baseLog *logger.Logger) SavedBuildRepo {
	repoLog := baseLog.With("repo", "SavedBuildRepo")
	return &savedBuildRepo{db: db, log: repoLog}
}

func (br *savedBuildRepo) Create(ctx context.Context, tx *gorm.DB, builds []*types.SavedBuild) ([]*types.SavedBuild, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	if len(builds) == 0 {
		return []*types.SavedBuild{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&builds).Error; err != nil {
		return nil, err
	}
	return builds, nil
}

func (br *savedBuildRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.SavedBuild, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.SavedBuild
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

func (br *savedBuildRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.SavedBuild, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.SavedBuild
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
