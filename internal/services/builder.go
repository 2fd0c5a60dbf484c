package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/builder"
	"github.com/velinpetkov/techlane-backend/internal/clients/redis"
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/repos"
	"github.com/velinpetkov/techlane-backend/internal/specmap"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

// ErrOwnerRequired is returned by checkout when no authenticated owner is
// attached to the request.
var ErrOwnerRequired = errors.New("an authenticated owner is required to check out a build")

// BuildQuote bundles validation and pricing for one configuration. The two
// results are independent; clients may also request them separately.
type BuildQuote struct {
	Validation builder.ValidationResult `json:"validation"`
	Price      builder.PriceBreakdown   `json:"price"`
}

type CheckoutResult struct {
	SavedBuildID uuid.UUID `json:"saved_build_id"`
	CartID       uuid.UUID `json:"cart_id"`
	CartTotal    float64   `json:"cart_total"`
}

type BuilderService interface {
	Validate(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration) (builder.ValidationResult, error)
	CalculatePrice(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration) (builder.PriceBreakdown, error)
	Quote(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration) (*BuildQuote, error)
	// SaveBuild persists an immutable snapshot. Owner is optional; total is
	// recomputed server-side when the caller does not supply one. Validity
	// is deliberately not enforced here: work-in-progress builds may be
	// saved.
	SaveBuild(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration, ownerID *uuid.UUID, total *float64) (*types.SavedBuild, error)
	// CheckoutBuild saves the build and materializes it as a cart line item
	// in a single transaction.
	CheckoutBuild(ctx context.Context, cfg *builder.Configuration, ownerID uuid.UUID) (*CheckoutResult, error)
	ListBuilds(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.SavedBuild, error)
}

type builderService struct {
	db            *gorm.DB
	log           *logger.Logger
	componentRepo repos.ComponentRepo
	ruleRepo      repos.CompatibilityRuleRepo
	buildRepo     repos.SavedBuildRepo
	cartRepo      repos.CartRepo
	cartItemRepo  repos.CartItemRepo
	ruleCache     redis.RuleCache
	evaluator     *builder.Evaluator
}

func NewBuilderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	componentRepo repos.ComponentRepo,
	ruleRepo repos.CompatibilityRuleRepo,
	buildRepo repos.SavedBuildRepo,
	cartRepo repos.CartRepo,
	cartItemRepo repos.CartItemRepo,
	ruleCache redis.RuleCache,
) BuilderService {
	serviceLog := baseLog.With("service", "BuilderService")
	return &builderService{
		db:            db,
		log:           serviceLog,
		componentRepo: componentRepo,
		ruleRepo:      ruleRepo,
		buildRepo:     buildRepo,
		cartRepo:      cartRepo,
		cartItemRepo:  cartItemRepo,
		ruleCache:     ruleCache,
		evaluator:     builder.NewEvaluator(serviceLog),
	}
}

// resolveCatalog scans the configuration for component ids and resolves
// them into the immutable records evaluation and pricing run against.
func (bs *builderService) resolveCatalog(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration) (builder.Catalog, error) {
	ids := cfg.ComponentIDs()
	resolved, err := bs.componentRepo.ResolveByIDs(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve components: %w", err)
	}

	catalog := make(builder.Catalog, len(resolved))
	for id, component := range resolved {
		catalog[id] = builder.ComponentRecord{
			ID:       id,
			Category: component.Category,
			Name:     component.Name,
			Price:    component.Price,
			Discount: component.Discount,
			Specs:    specmap.SpecMap(component.Specs),
		}
	}
	return catalog, nil
}

// compiledRules loads the active rule snapshot, preferring the short-TTL
// redis cache when one is wired, and compiles it once for this evaluation.
func (bs *builderService) compiledRules(ctx context.Context, tx *gorm.DB) ([]builder.CompiledRule, error) {
	if bs.ruleCache != nil {
		cached, err := bs.ruleCache.Get(ctx)
		if err != nil {
			bs.log.Warn("Rule cache read failed, falling back to store", "error", err)
		} else if cached != nil {
			return builder.CompileRules(cached, bs.log), nil
		}
	}

	rules, err := bs.ruleRepo.ListActive(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load active rules: %w", err)
	}
	if bs.ruleCache != nil {
		if err := bs.ruleCache.Set(ctx, rules); err != nil {
			bs.log.Warn("Rule cache write failed", "error", err)
		}
	}
	return builder.CompileRules(rules, bs.log), nil
}

func (bs *builderService) Validate(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration) (builder.ValidationResult, error) {
	catalog, err := bs.resolveCatalog(ctx, tx, cfg)
	if err != nil {
		return builder.ValidationResult{}, err
	}
	rules, err := bs.compiledRules(ctx, tx)
	if err != nil {
		return builder.ValidationResult{}, err
	}
	return bs.evaluator.Evaluate(cfg, catalog, rules), nil
}

func (bs *builderService) CalculatePrice(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration) (builder.PriceBreakdown, error) {
	catalog, err := bs.resolveCatalog(ctx, tx, cfg)
	if err != nil {
		return builder.PriceBreakdown{}, err
	}
	return builder.Price(cfg, catalog), nil
}

func (bs *builderService) Quote(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration) (*BuildQuote, error) {
	var (
		catalog builder.Catalog
		rules   []builder.CompiledRule
	)

	if tx == nil {
		// Both snapshot loads go through the connection pool, so they can
		// run concurrently. Inside a transaction they must stay sequential.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			catalog, err = bs.resolveCatalog(gctx, nil, cfg)
			return err
		})
		g.Go(func() error {
			var err error
			rules, err = bs.compiledRules(gctx, nil)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		var err error
		if catalog, err = bs.resolveCatalog(ctx, tx, cfg); err != nil {
			return nil, err
		}
		if rules, err = bs.compiledRules(ctx, tx); err != nil {
			return nil, err
		}
	}

	return &BuildQuote{
		Validation: bs.evaluator.Evaluate(cfg, catalog, rules),
		Price:      builder.Price(cfg, catalog),
	}, nil
}

func (bs *builderService) SaveBuild(ctx context.Context, tx *gorm.DB, cfg *builder.Configuration, ownerID *uuid.UUID, total *float64) (*types.SavedBuild, error) {
	snapshot, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("snapshot configuration: %w", err)
	}

	buildTotal := 0.0
	if total != nil {
		buildTotal = *total
	} else {
		breakdown, err := bs.CalculatePrice(ctx, tx, cfg)
		if err != nil {
			return nil, err
		}
		buildTotal = breakdown.Total
	}

	if ownerID != nil && *ownerID == uuid.Nil {
		ownerID = nil
	}

	build := &types.SavedBuild{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Configuration: snapshot,
		Total:         buildTotal,
	}
	if _, err := bs.buildRepo.Create(ctx, tx, []*types.SavedBuild{build}); err != nil {
		bs.log.Error("SaveBuild failed", "error", err)
		return nil, fmt.Errorf("create saved build: %w", err)
	}
	return build, nil
}

func (bs *builderService) CheckoutBuild(ctx context.Context, cfg *builder.Configuration, ownerID uuid.UUID) (*CheckoutResult, error) {
	if ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}

	var result CheckoutResult
	err := bs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		breakdown, err := bs.CalculatePrice(ctx, tx, cfg)
		if err != nil {
			return err
		}

		owner := ownerID
		build, err := bs.SaveBuild(ctx, tx, cfg, &owner, &breakdown.Total)
		if err != nil {
			return err
		}

		cart, err := bs.cartRepo.GetOrCreateForOwner(ctx, tx, ownerID)
		if err != nil {
			return fmt.Errorf("get or create cart: %w", err)
		}

		item := &types.CartItem{
			ID:           uuid.New(),
			CartID:       cart.ID,
			SavedBuildID: &build.ID,
			Label:        "Custom PC build",
			Quantity:     1,
			UnitPrice:    build.Total,
			LineTotal:    build.Total,
		}
		if _, err := bs.cartItemRepo.Create(ctx, tx, []*types.CartItem{item}); err != nil {
			return fmt.Errorf("create cart item: %w", err)
		}

		updated, err := bs.cartRepo.RecomputeTotals(ctx, tx, cart.ID)
		if err != nil {
			return fmt.Errorf("recompute cart totals: %w", err)
		}

		result = CheckoutResult{
			SavedBuildID: build.ID,
			CartID:       cart.ID,
			CartTotal:    updated.Total,
		}
		return nil
	})
	if err != nil {
		bs.log.Error("CheckoutBuild failed", "error", err, "owner_id", ownerID)
		return nil, err
	}
	return &result, nil
}

func (bs *builderService) ListBuilds(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.SavedBuild, error) {
	if ownerID == uuid.Nil {
		return nil, ErrOwnerRequired
	}
	return bs.buildRepo.ListByOwner(ctx, tx, ownerID)
}
