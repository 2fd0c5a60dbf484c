package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/clients/redis"
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/repos"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

var validCategories = map[string]bool{
	types.CategoryCPU:         true,
	types.CategoryMotherboard: true,
	types.CategoryCase:        true,
	types.CategoryPSU:         true,
	types.CategoryStorage:     true,
	types.CategoryMemory:      true,
	types.CategoryGPU:         true,
	types.CategoryCooling:     true,
	types.CategoryFan:         true,
	types.CategoryMonitor:     true,
}

var validRuleKinds = map[string]bool{
	types.RuleKindMaxQuantity:         true,
	types.RuleKindSocketCompatibility: true,
	types.RuleKindFormFactor:          true,
	types.RuleKindPowerRequirement:    true,
	types.RuleKindMemoryType:          true,
	types.RuleKindStorageInterface:    true,
	types.RuleKindCustom:              true,
}

// CatalogService covers catalog browsing plus the admin CRUD for
// components and compatibility rules. The builder core never calls this;
// it consumes resolved snapshots through its own accessors.
type CatalogService interface {
	ListComponents(ctx context.Context, tx *gorm.DB, category, query string) ([]*types.Component, error)
	GetComponent(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Component, error)
	CreateComponent(ctx context.Context, tx *gorm.DB, component *types.Component) (*types.Component, error)
	UpdateComponent(ctx context.Context, tx *gorm.DB, component *types.Component) (*types.Component, error)
	ListRules(ctx context.Context, tx *gorm.DB) ([]*types.CompatibilityRule, error)
	CreateRule(ctx context.Context, tx *gorm.DB, rule *types.CompatibilityRule) (*types.CompatibilityRule, error)
	UpdateRule(ctx context.Context, tx *gorm.DB, rule *types.CompatibilityRule) (*types.CompatibilityRule, error)
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	componentRepo repos.ComponentRepo
	ruleRepo      repos.CompatibilityRuleRepo
	ruleCache     redis.RuleCache
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	componentRepo repos.ComponentRepo,
	ruleRepo repos.CompatibilityRuleRepo,
	ruleCache redis.RuleCache,
) CatalogService {
	serviceLog := baseLog.With("service", "CatalogService")
	return &catalogService{
		db:            db,
		log:           serviceLog,
		componentRepo: componentRepo,
		ruleRepo:      ruleRepo,
		ruleCache:     ruleCache,
	}
}

func (cs *catalogService) ListComponents(ctx context.Context, tx *gorm.DB, category, query string) ([]*types.Component, error) {
	if category != "" && !validCategories[category] {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return cs.componentRepo.List(ctx, tx, category, query)
}

func (cs *catalogService) GetComponent(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Component, error) {
	components, err := cs.componentRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("component not found")
	}
	return components[0], nil
}

func (cs *catalogService) CreateComponent(ctx context.Context, tx *gorm.DB, component *types.Component) (*types.Component, error) {
	if err := validateComponent(component); err != nil {
		return nil, err
	}
	if component.ID == uuid.Nil {
		component.ID = uuid.New()
	}
	created, err := cs.componentRepo.Create(ctx, tx, []*types.Component{component})
	if err != nil {
		cs.log.Error("CreateComponent failed", "error", err)
		return nil, fmt.Errorf("create component: %w", err)
	}
	return created[0], nil
}

func (cs *catalogService) UpdateComponent(ctx context.Context, tx *gorm.DB, component *types.Component) (*types.Component, error) {
	if err := validateComponent(component); err != nil {
		return nil, err
	}
	if component.ID == uuid.Nil {
		return nil, fmt.Errorf("component id required")
	}
	updated, err := cs.componentRepo.Update(ctx, tx, component)
	if err != nil {
		cs.log.Error("UpdateComponent failed", "error", err)
		return nil, fmt.Errorf("update component: %w", err)
	}
	return updated, nil
}

func (cs *catalogService) ListRules(ctx context.Context, tx *gorm.DB) ([]*types.CompatibilityRule, error) {
	return cs.ruleRepo.List(ctx, tx)
}

func (cs *catalogService) CreateRule(ctx context.Context, tx *gorm.DB, rule *types.CompatibilityRule) (*types.CompatibilityRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	created, err := cs.ruleRepo.Create(ctx, tx, []*types.CompatibilityRule{rule})
	if err != nil {
		cs.log.Error("CreateRule failed", "error", err)
		return nil, fmt.Errorf("create rule: %w", err)
	}
	cs.invalidateRuleCache(ctx)
	return created[0], nil
}

func (cs *catalogService) UpdateRule(ctx context.Context, tx *gorm.DB, rule *types.CompatibilityRule) (*types.CompatibilityRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	if rule.ID == uuid.Nil {
		return nil, fmt.Errorf("rule id required")
	}
	updated, err := cs.ruleRepo.Update(ctx, tx, rule)
	if err != nil {
		cs.log.Error("UpdateRule failed", "error", err)
		return nil, fmt.Errorf("update rule: %w", err)
	}
	cs.invalidateRuleCache(ctx)
	return updated, nil
}

// invalidateRuleCache drops the cached snapshot after an admin mutation so
// the next evaluation sees the new rule set without waiting out the TTL.
func (cs *catalogService) invalidateRuleCache(ctx context.Context) {
	if cs.ruleCache == nil {
		return
	}
	if err := cs.ruleCache.Invalidate(ctx); err != nil {
		cs.log.Warn("Rule cache invalidation failed", "error", err)
	}
}

func validateComponent(component *types.Component) error {
	if component == nil {
		return fmt.Errorf("component required")
	}
	if component.Name == "" {
		return fmt.Errorf("component name required")
	}
	if !validCategories[component.Category] {
		return fmt.Errorf("unknown category %q", component.Category)
	}
	if component.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if component.Discount < 0 || component.Discount > 100 {
		return fmt.Errorf("discount must be between 0 and 100")
	}
	return nil
}

func validateRule(rule *types.CompatibilityRule) error {
	if rule == nil {
		return fmt.Errorf("rule required")
	}
	if rule.Name == "" {
		return fmt.Errorf("rule name required")
	}
	if !validRuleKinds[rule.Kind] {
		return fmt.Errorf("unknown rule kind %q", rule.Kind)
	}
	if rule.Message == "" {
		return fmt.Errorf("rule message required")
	}
	return nil
}
