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

type CatalogHandler struct {
	log        *logger.Logger
	catalogSvc services.CatalogService
}

func NewCatalogHandler(log *logger.Logger, catalogSvc services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		log:        log.With("handler", "CatalogHandler"),
		catalogSvc: catalogSvc,
	}
}

// GET /api/v1/components?category=&q=
func (ch *CatalogHandler) ListComponents(c *gin.Context) {
	components, err := ch.catalogSvc.ListComponents(c.Request.Context(), nil, c.Query("category"), c.Query("q"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondOK(c, gin.H{"components": components})
}

// GET /api/v1/components/:id
func (ch *CatalogHandler) GetComponent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("invalid component id"))
		return
	}
	component, err := ch.catalogSvc.GetComponent(c.Request.Context(), nil, id)
	if err != nil {
		RespondError(c, http.StatusNotFound, CodeNotFound, err)
		return
	}
	RespondOK(c, component)
}

// POST /api/v1/admin/components
func (ch *CatalogHandler) CreateComponent(c *gin.Context) {
	var component types.Component
	if err := c.ShouldBindJSON(&component); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	created, err := ch.catalogSvc.CreateComponent(c.Request.Context(), nil, &component)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondCreated(c, created)
}

// PUT /api/v1/admin/components/:id
func (ch *CatalogHandler) UpdateComponent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("invalid component id"))
		return
	}
	var component types.Component
	if err := c.ShouldBindJSON(&component); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	component.ID = id
	updated, err := ch.catalogSvc.UpdateComponent(c.Request.Context(), nil, &component)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondOK(c, updated)
}

// GET /api/v1/admin/rules
func (ch *CatalogHandler) ListRules(c *gin.Context) {
	rules, err := ch.catalogSvc.ListRules(c.Request.Context(), nil)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	RespondOK(c, gin.H{"rules": rules})
}

// POST /api/v1/admin/rules
func (ch *CatalogHandler) CreateRule(c *gin.Context) {
	var rule types.CompatibilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	created, err := ch.catalogSvc.CreateRule(c.Request.Context(), nil, &rule)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondCreated(c, created)
}

// PUT /api/v1/admin/rules/:id
func (ch *CatalogHandler) UpdateRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, fmt.Errorf("invalid rule id"))
		return
	}
	var rule types.CompatibilityRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	rule.ID = id
	updated, err := ch.catalogSvc.UpdateRule(c.Request.Context(), nil, &rule)
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondOK(c, updated)
}
