package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/velinpetkov/techlane-backend/internal/builder"
	"github.com/velinpetkov/techlane-backend/internal/logger"
	"github.com/velinpetkov/techlane-backend/internal/requestdata"
	"github.com/velinpetkov/techlane-backend/internal/services"
)

type BuilderHandler struct {
	log        *logger.Logger
	builderSvc services.BuilderService
}

func NewBuilderHandler(log *logger.Logger, builderSvc services.BuilderService) *BuilderHandler {
	return &BuilderHandler{
		log:        log.With("handler", "BuilderHandler"),
		builderSvc: builderSvc,
	}
}

// configurationRequest is the shared body for validate, price, quote, save
// and checkout.
type configurationRequest struct {
	Configuration *builder.Configuration `json:"configuration"`
}

func (bh *BuilderHandler) bindConfiguration(c *gin.Context) (*builder.Configuration, bool) {
	var req configurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if !errors.Is(err, builder.ErrInvalidConfiguration) {
			err = builder.ErrInvalidConfiguration
		}
		RespondError(c, http.StatusBadRequest, CodeInvalidConfiguration, err)
		return nil, false
	}
	if req.Configuration == nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidConfiguration, builder.ErrInvalidConfiguration)
		return nil, false
	}
	return req.Configuration, true
}

// POST /api/v1/builder/validate
func (bh *BuilderHandler) Validate(c *gin.Context) {
	cfg, ok := bh.bindConfiguration(c)
	if !ok {
		return
	}
	result, err := bh.builderSvc.Validate(c.Request.Context(), nil, cfg)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, result)
}

// POST /api/v1/builder/price
func (bh *BuilderHandler) Price(c *gin.Context) {
	cfg, ok := bh.bindConfiguration(c)
	if !ok {
		return
	}
	breakdown, err := bh.builderSvc.CalculatePrice(c.Request.Context(), nil, cfg)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, breakdown)
}

// POST /api/v1/builder/quote
func (bh *BuilderHandler) Quote(c *gin.Context) {
	cfg, ok := bh.bindConfiguration(c)
	if !ok {
		return
	}
	quote, err := bh.builderSvc.Quote(c.Request.Context(), nil, cfg)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, quote)
}

// POST /api/v1/builder/builds
// Saves a snapshot. Works for anonymous callers; the owner is attached when
// the request carries one.
func (bh *BuilderHandler) SaveBuild(c *gin.Context) {
	cfg, ok := bh.bindConfiguration(c)
	if !ok {
		return
	}

	var ownerID *uuid.UUID
	if owner := requestdata.OwnerID(c.Request.Context()); owner != uuid.Nil {
		ownerID = &owner
	}

	build, err := bh.builderSvc.SaveBuild(c.Request.Context(), nil, cfg, ownerID, nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondCreated(c, build)
}

// GET /api/v1/builder/builds
func (bh *BuilderHandler) ListBuilds(c *gin.Context) {
	owner := requestdata.OwnerID(c.Request.Context())
	builds, err := bh.builderSvc.ListBuilds(c.Request.Context(), nil, owner)
	if err != nil {
		if errors.Is(err, services.ErrOwnerRequired) {
			RespondError(c, http.StatusUnauthorized, CodeAuthRequired, err)
			return
		}
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, gin.H{"builds": builds})
}

// POST /api/v1/builder/checkout
func (bh *BuilderHandler) Checkout(c *gin.Context) {
	cfg, ok := bh.bindConfiguration(c)
	if !ok {
		return
	}

	owner := requestdata.OwnerID(c.Request.Context())
	result, err := bh.builderSvc.CheckoutBuild(c.Request.Context(), cfg, owner)
	if err != nil {
		if errors.Is(err, services.ErrOwnerRequired) {
			RespondError(c, http.StatusUnauthorized, CodeAuthRequired, err)
			return
		}
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondCreated(c, result)
}
