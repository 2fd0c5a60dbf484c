package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type ComponentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, components []*types.Component) ([]*types.Component, error)
	Update(ctx context.Context, tx *gorm.DB, component *types.Component) (*types.Component, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Component, error)
	List(ctx context.Context, tx *gorm.DB, category, query string) ([]*types.Component, error)
	// ResolveByIDs resolves opaque identifiers to active components, keyed
	// by the identifier as submitted. Unknown or unparseable identifiers
	// are absent from the result, never an error.
	ResolveByIDs(ctx context.Context, tx *gorm.DB, ids []string) (map[string]*types.Component, error)
}

type componentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewComponentRepo(db *gorm.DB, baseLog *logger.Logger) ComponentRepo {
	repoLog := baseLog.With("repo", "ComponentRepo")
	return &componentRepo{db: db, log: repoLog}
}

func (cr *componentRepo) Create(ctx context.Context, tx *gorm.DB, components []*types.Component) ([]*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if len(components) == 0 {
		return []*types.Component{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&components).Error; err != nil {
		return nil, err
	}
	return components, nil
}

func (cr *componentRepo) Update(ctx context.Context, tx *gorm.DB, component *types.Component) (*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	if err := transaction.WithContext(ctx).Save(component).Error; err != nil {
		return nil, err
	}
	return component, nil
}

func (cr *componentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Component
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

func (cr *componentRepo) List(ctx context.Context, tx *gorm.DB, category, query string) ([]*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	q := transaction.WithContext(ctx).Where("active = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if query != "" {
		q = q.Where("name LIKE ?", "%"+query+"%")
	}

	var results []*types.Component
	if err := q.Order("category, name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *componentRepo) ResolveByIDs(ctx context.Context, tx *gorm.DB, ids []string) (map[string]*types.Component, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	resolved := make(map[string]*types.Component, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		u, err := uuid.Parse(id)
		if err != nil {
			cr.log.Debug("Skipping unparseable component id", "component_id", id)
			continue
		}
		parsed = append(parsed, u)
	}
	if len(parsed) == 0 {
		return resolved, nil
	}

	var components []*types.Component
	if err := transaction.WithContext(ctx).
		Where("id IN ? AND active = ?", parsed, true).
		Find(&components).Error; err != nil {
		return nil, err
	}
	for _, component := range components {
		resolved[component.ID.String()] = component
	}
	return resolved, nil
}
