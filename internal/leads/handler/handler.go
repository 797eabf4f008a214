// Package handler exposes the leads module over HTTP.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dsa_portal_backend/internal/leads/domain"
	"dsa_portal_backend/internal/leads/repository"
	"dsa_portal_backend/internal/leads/service"
	"dsa_portal_backend/internal/leads/transport"
	"dsa_portal_backend/platform/httpkit"
	"dsa_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid lead ID"
)

// Handler handles HTTP requests for leads.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Create registers a new lead.
// POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
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

	input := service.CreateInput{
		ProductType:           domain.ProductType(req.ProductType),
		Basic:                 req.BasicDetails.ToBasicDetails(),
		Occupation:            req.OccupationDetails.ToOccupationDetails(),
		Financial:             req.FinancialDetails.ToFinancialDetails(),
		Loan:                  req.LoanDetails.ToLoanDetails(),
		AssignedBranchName:    req.AssignedBranchName,
		AssignedBranchAddress: req.AssignedBranchAddress,
	}

	lead, err := h.svc.Create(c.Request.Context(), input, identity.Username())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, transport.ToLeadResponse(lead))
}

// GetByID retrieves a lead by ID.
// GET /api/v1/leads/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Update applies a partial update to a draft lead.
// PUT /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateLeadRequest
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

	input := service.UpdateInput{
		Occupation:            req.OccupationDetails.ToOccupationDetails(),
		Financial:             req.FinancialDetails.ToFinancialDetails(),
		AssignedBranchName:    req.AssignedBranchName,
		AssignedBranchAddress: req.AssignedBranchAddress,
	}
	if req.BasicDetails != nil {
		basic := req.BasicDetails.ToBasicDetails()
		input.Basic = &basic
	}
	if req.LoanDetails != nil {
		loan := req.LoanDetails.ToLoanDetails()
		input.Loan = &loan
	}

	lead, err := h.svc.Update(c.Request.Context(), id, input, identity.Username())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(lead))
}

// Delete soft-deletes a draft lead.
// DELETE /api/v1/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id, identity.Username())) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Search lists the caller's leads with optional filters.
// GET /api/v1/leads
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
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

	params := repository.SearchParams{
		CreatedBy:  identity.Username(),
		SearchTerm: req.SearchTerm,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}
	if req.Status != "" {
		status := domain.LeadStatus(req.Status)
		params.Status = &status
	}
	if req.ProductType != "" {
		product := domain.ProductType(req.ProductType)
		params.ProductType = &product
	}

	result, err := h.svc.Search(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.LeadSummaryResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, transport.ToSummaryResponse(item))
	}
	httpkit.OK(c, transport.LeadSearchResponse{Items: items, Total: result.Total, Page: result.Page, PageSize: result.PageSize})
}

// Recent lists the caller's most recently created leads.
// GET /api/v1/leads/recent
func (h *Handler) Recent(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		limit = parsed
	}

	summaries, err := h.svc.Recent(c.Request.Context(), identity.Username(), limit)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.LeadSummaryResponse, 0, len(summaries))
	for _, item := range summaries {
		items = append(items, transport.ToSummaryResponse(item))
	}
	httpkit.OK(c, items)
}

// ReplaceDocuments rewrites a draft lead's document metadata.
// PUT /api/v1/leads/:id/documents
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
