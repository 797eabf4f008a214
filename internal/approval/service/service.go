// Package service orchestrates DSA product approval against the external
// Approval Service.
package service

import (
	"context"

	"dsa_portal_backend/internal/approval/outbox"
	"dsa_portal_backend/internal/approval/transport"
	"dsa_portal_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// pendingLookupConcurrency bounds parallel DSA lookups during pending-queue
// enrichment.
const pendingLookupConcurrency = 8

// ApprovalClient is the outbound port to the Approval Service.
type ApprovalClient interface {
	Authorize(ctx context.Context, dsaID uuid.UUID, productType, approverID string) (transport.AuthorizeResponse, error)
	Verify(ctx context.Context, dsaID uuid.UUID) ([]transport.ProductApproval, error)
	Pending(ctx context.Context, approverID string) ([]transport.PendingApproval, error)
	Ping(ctx context.Context) error
}

// StagingOutbox records staging requests durably before they are dispatched.
type StagingOutbox interface {
	Enqueue(ctx context.Context, dsaID uuid.UUID, products []string) (outbox.Entry, error)
}

// StageEnqueuer pushes a staging entry onto the task queue for immediate
// processing. The periodic dispatcher covers entries whose enqueue was lost.
type StageEnqueuer interface {
	EnqueueStage(ctx context.Context, entryID uuid.UUID) error
}

// DsaDirectory resolves local DSA display data for enrichment.
type DsaDirectory interface {
	Lookup(ctx context.Context, dsaID uuid.UUID) (name, uniqueCode string, err error)
}

// Service implements approval orchestration use cases.
type Service struct {
	client    ApprovalClient
	outbox    StagingOutbox
	enqueuer  StageEnqueuer
	directory DsaDirectory
	log       *logger.Logger
}

// New creates a new approval service.
func New(client ApprovalClient, box StagingOutbox, enqueuer StageEnqueuer, directory DsaDirectory, log *logger.Logger) *Service {
	return &Service{client: client, outbox: box, enqueuer: enqueuer, directory: directory, log: log}
}

// StageProducts durably queues a staging request. The external call happens
// asynchronously with retry; callers never see upstream failures here. The
// outbox row is the only hard dependency.
func (s *Service) StageProducts(ctx context.Context, dsaID uuid.UUID, products []string) error {
	entry, err := s.outbox.Enqueue(ctx, dsaID, products)
	if err != nil {
		return err
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueStage(ctx, entry.ID); err != nil {
			// Dispatcher sweep picks the entry up later.
			s.log.Error("staging task enqueue failed", "entryId", entry.ID, "dsaId", dsaID, "error", err)
		}
	}

	s.log.Info("approval staging queued", "entryId", entry.ID, "dsaId", dsaID, "products", products)
	return nil
}

// Authorize synchronously approves one product for a DSA. Upstream failures
// propagate to the caller as Dependency errors.
func (s *Service) Authorize(ctx context.Context, dsaID uuid.UUID, productType, approverID string) (transport.AuthorizeResponse, error) {
	result, err := s.client.Authorize(ctx, dsaID, productType, approverID)
	if err != nil {
		return transport.AuthorizeResponse{}, err
	}

	s.log.Info("dsa product authorized", "dsaId", dsaID, "productType", productType, "approverId", approverID)
	return result, nil
}

// Verify returns the per-product approval state of a DSA. An empty list is a
// valid result, not an error.
func (s *Service) Verify(ctx context.Context, dsaID uuid.UUID) ([]transport.ProductApproval, error) {
	return s.client.Verify(ctx, dsaID)
}

// ListPending returns the approver's pending queue enriched with local DSA
// names and codes. A DSA missing locally degrades to placeholder values.
func (s *Service) ListPending(ctx context.Context, approverID string) ([]transport.PendingApprovalResponse, error) {
	pending, err := s.client.Pending(ctx, approverID)
	if err != nil {
		return nil, err
	}

	enriched := make([]transport.PendingApprovalResponse, len(pending))

	var g errgroup.Group
	g.SetLimit(pendingLookupConcurrency)
	for i, item := range pending {
		i, item := i, item
		g.Go(func() error {
			name, code := "Unknown", "N/A"
			if resolvedName, resolvedCode, err := s.directory.Lookup(ctx, item.DsaID); err == nil {
				name, code = resolvedName, resolvedCode
			} else {
				s.log.Warn("pending approval references unknown dsa", "dsaId", item.DsaID)
			}
			enriched[i] = transport.PendingApprovalResponse{
				DsaID:       item.DsaID,
				DsaName:     name,
				UniqueCode:  code,
				ProductType: item.ProductType,
				StagedDate:  item.StagedDate,
			}
			return nil
		})
	}
	_ = g.Wait()

	return enriched, nil
}

// Ping reports Approval Service reachability. Failures are logged, never
// returned.
func (s *Service) Ping(ctx context.Context) bool {
	if err := s.client.Ping(ctx); err != nil {
		s.log.UpstreamCall("approval", "ping", err)
		return false
	}
	return true
}
