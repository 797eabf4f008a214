// Package handler exposes the approval module over HTTP.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dsa_portal_backend/internal/approval/service"
	"dsa_portal_backend/internal/approval/transport"
	"dsa_portal_backend/platform/httpkit"
	"dsa_portal_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid DSA ID"
)

// Handler handles HTTP requests for approvals.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new approval handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Authorize approves one product for a DSA. The approver is the
// authenticated user.
// POST /api/v1/admin/approvals/authorize
func (h *Handler) Authorize(c *gin.Context) {
	var req transport.AuthorizeApprovalRequest
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

	result, err := h.svc.Authorize(c.Request.Context(), req.DsaID, req.ProductType, identity.Username())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Verify returns the per-product approval state of a DSA.
// GET /api/v1/admin/approvals/verify/:dsaId
func (h *Handler) Verify(c *gin.Context) {
	dsaID, err := uuid.Parse(c.Param("dsaId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	result, err := h.svc.Verify(c.Request.Context(), dsaID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListPending returns the authenticated approver's pending queue.
// GET /api/v1/admin/approvals/pending
func (h *Handler) ListPending(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ListPending(c.Request.Context(), identity.Username())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Ping reports Approval Service reachability. Always 200; the body carries
// the result.
// GET /api/v1/admin/approvals/ping
func (h *Handler) Ping(c *gin.Context) {
	httpkit.OK(c, transport.PingResponse{Reachable: h.svc.Ping(c.Request.Context())})
}
