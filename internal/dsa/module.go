// Package dsa provides the Direct Selling Agent bounded context.
// DSA profiles are administered centrally; their product sets are staged for
// per-product approval through the approval module.
package dsa

import (
	"dsa_portal_backend/internal/dsa/handler"
	"dsa_portal_backend/internal/dsa/repository"
	"dsa_portal_backend/internal/dsa/service"
	apphttp "dsa_portal_backend/internal/http"
	"dsa_portal_backend/platform/logger"
	"dsa_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the DSA bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the DSA module. The stager queues
// approval staging when product sets change; the approval module provides it.
func NewModule(pool *pgxpool.Pool, stager service.ProductStager, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, stager, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dsa"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts DSA routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/dsas")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.Search)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.PATCH("/:id/status", m.handler.UpdateStatus)
	group.PUT("/:id/documents", m.handler.ReplaceDocuments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
