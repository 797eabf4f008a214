// Package leads provides the loan-application leads bounded context.
// Leads are created by DSA agents on behalf of applicants and move through
// a fixed lifecycle; only drafts may be edited or deleted.
package leads

import (
	apphttp "dsa_portal_backend/internal/http"
	"dsa_portal_backend/internal/leads/handler"
	"dsa_portal_backend/internal/leads/repository"
	"dsa_portal_backend/internal/leads/service"
	"dsa_portal_backend/platform/logger"
	"dsa_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.Search)
	group.GET("/recent", m.handler.Recent)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.PUT("/:id/documents", m.handler.ReplaceDocuments)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
