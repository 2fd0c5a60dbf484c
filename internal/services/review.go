package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/repos"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type ReviewService interface {
	AddReview(ctx context.Context, tx *gorm.DB, review *types.Review) (*types.Review, error)
	ListForComponent(ctx context.Context, tx *gorm.DB, componentID uuid.UUID) ([]*types.Review, error)
}

type reviewService struct {
	db            *gorm.DB
	log           *logger.Logger
	reviewRepo    repos.ReviewRepo
	componentRepo repos.ComponentRepo
}

func NewReviewService(db *gorm.DB, baseLog *logger.Logger, reviewRepo repos.ReviewRepo, componentRepo repos.ComponentRepo) ReviewService {
	serviceLog := baseLog.With("service", "ReviewService")
	return &reviewService{db: db, log: serviceLog, reviewRepo: reviewRepo, componentRepo: componentRepo}
}

func (rs *reviewService) AddReview(ctx context.Context, tx *gorm.DB, review *types.Review) (*types.Review, error) {
	if review == nil {
		return nil, fmt.Errorf("review required")
	}
	if review.AuthorName == "" {
		return nil, fmt.Errorf("author name required")
	}
	if review.Rating < 1 || review.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	components, err := rs.componentRepo.GetByIDs(ctx, tx, []uuid.UUID{review.ComponentID})
	if err != nil {
		return nil, fmt.Errorf("load component: %w", err)
	}
	if len(components) == 0 {
		return nil, fmt.Errorf("component not found")
	}

	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	created, err := rs.reviewRepo.Create(ctx, tx, []*types.Review{review})
	if err != nil {
		rs.log.Error("AddReview failed", "error", err)
		return nil, fmt.Errorf("create review: %w", err)
	}
	return created[0], nil
}

func (rs *reviewService) ListForComponent(ctx context.Context, tx *gorm.DB, componentID uuid.UUID) ([]*types.Review, error) {
	return rs.reviewRepo.ListByComponent(ctx, tx, componentID)
}
