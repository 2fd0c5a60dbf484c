package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/services"
	"github.com/velinpetkov/techlane-backend/internal/types"
)

type ReviewHandler struct {
	log       *logger.Logger
	reviewSvc services.ReviewService
}

func NewReviewHandler(log *logger.Logger, reviewSvc services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		log:       log.With("handler", "ReviewHandler"),
		reviewSvc: reviewSvc,
	}
}

// GET /api/v1/components/:id/reviews
func (rh *ReviewHandler) ListForComponent(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("invalid component id"))
		return
	}
	reviews, err := rh.reviewSvc.ListForComponent(c.Request.Context(), nil, componentID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, gin.H{"reviews": reviews})
}

// POST /api/v1/components/:id/reviews
func (rh *ReviewHandler) AddReview(c *gin.Context) {
	componentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("invalid component id"))
		return
	}
	var review types.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	review.ComponentID = componentID

	created, err := rh.reviewSvc.AddReview(c.Request.Context(), nil, &review)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondCreated(c, created)
}
