// Package handler exposes the DSA module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dsa_portal_backend/internal/dsa/domain"
	"dsa_portal_backend/internal/dsa/repository"
	"dsa_portal_backend/internal/dsa/service"
	"dsa_portal_backend/internal/dsa/transport"
	"dsa_portal_backend/platform/httpkit"
	"dsa_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid DSA ID"
)

// Handler handles HTTP requests for DSA profiles.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new DSA handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create registers a new DSA profile (admin only).
// POST /api/v1/admin/dsas
func (h *Handler) Create(c *gin.Context) {
	var req transport.UpsertDsaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	dsa, err := h.svc.Create(c.Request.Context(), req.ToInput(), identity.Username())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToDsaResponse(dsa))
}

// GetByID retrieves a DSA profile.
// GET /api/v1/admin/dsas/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	dsa, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDsaResponse(dsa))
}

// Update replaces a DSA profile.
// PUT /api/v1/admin/dsas/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpsertDsaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	dsa, err := h.svc.Update(c.Request.Context(), id, req.ToInput(), identity.Username())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToDsaResponse(dsa))
}

// UpdateStatus overwrites the profile status.
// PATCH /api/v1/admin/dsas/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	err = h.svc.UpdateStatus(c.Request.Context(), id, domain.Status(req.Status), identity.Username())
	if httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ReplaceDocuments rewrites a DSA profile's document metadata.
// PUT /api/v1/admin/dsas/:id/documents
func (h *Handler) ReplaceDocuments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.ReplaceDocumentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	docs := make([]repository.Document, 0, len(req.Documents))
	for _, doc := range req.Documents {
		docs = append(docs, repository.Document{
			DocumentType: doc.DocumentType,
			FileName:     doc.FileName,
			StoragePath:  doc.StoragePath,
		})
	}

	if httpkit.HandleError(c, h.svc.ReplaceDocuments(c.Request.Context(), id, docs, identity.Username())) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Search lists DSA profiles with optional filters.
// GET /api/v1/admin/dsas
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchDsasRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	params := repository.SearchParams{Page: req.Page, PageSize: req.PageSize}
	if req.Category != "" {
		params.Category = &req.Category
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		params.Status = &status
	}

	result, err := h.svc.Search(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.DsaResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, transport.ToDsaResponse(item))
	}
	httpkit.OK(c, transport.DsaSearchResponse{Items: items, Total: result.Total, Page: result.Page, PageSize: result.PageSize})
}
