// Package approval provides the DSA product approval bounded context.
// It fronts an external Approval Service: staging goes through a durable
// outbox with asynchronous dispatch, while authorize/verify/pending are
// synchronous pass-throughs enriched with local DSA data.
package approval

import (
	"dsa_portal_backend/internal/approval/client"
	"dsa_portal_backend/internal/approval/handler"
	"dsa_portal_backend/internal/approval/outbox"
	"dsa_portal_backend/internal/approval/service"
	apphttp "dsa_portal_backend/internal/http"
	"dsa_portal_backend/platform/config"
	"dsa_portal_backend/platform/logger"
	"dsa_portal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the approval bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	client  *client.Client
	outbox  *outbox.Outbox
}

// NewModule creates and initializes the approval module. The enqueuer may be
// nil when the task queue is not configured; the dispatcher sweep then
// carries all staging traffic.
func NewModule(pool *pgxpool.Pool, cfg config.ApprovalConfig, enqueuer service.StageEnqueuer, directory service.DsaDirectory, val *validator.Validator, log *logger.Logger) *Module {
	apiClient := client.New(cfg, log)
	box := outbox.New(pool)
	svc := service.New(apiClient, box, enqueuer, directory, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		client:  apiClient,
		outbox:  box,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "approval"
}

// Service returns the service layer for external use (the DSA module's
// staging trigger).
func (m *Module) Service() *service.Service {
	return m.service
}

// Client returns the Approval Service client for the worker.
func (m *Module) Client() *client.Client {
	return m.client
}

// Outbox returns the staging outbox for the worker and dispatcher.
func (m *Module) Outbox() *outbox.Outbox {
	return m.outbox
}

// RegisterRoutes mounts approval routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/approvals")
	group.POST("/authorize", m.handler.Authorize)
	group.GET("/verify/:dsaId", m.handler.Verify)
	group.GET("/pending", m.handler.ListPending)
	group.GET("/ping", m.handler.Ping)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
