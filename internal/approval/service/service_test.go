package service

import (
	"context"
	"errors"
	"testing"

	"dsa_portal_backend/internal/approval/outbox"
	"dsa_portal_backend/internal/approval/transport"
	"dsa_portal_backend/platform/apperr"
	"dsa_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeClient struct {
	authorizeErr error
	verifyErr    error
	pending      []transport.PendingApproval
	pendingErr   error
	pingErr      error
	pingCalls    int
}

func (f *fakeClient) Authorize(_ context.Context, dsaID uuid.UUID, productType, approverID string) (transport.AuthorizeResponse, error) {
	if f.authorizeErr != nil {
		return transport.AuthorizeResponse{}, f.authorizeErr
	}
	return transport.AuthorizeResponse{DsaID: dsaID, ProductType: productType, Status: "APPROVED", ApproverID: approverID}, nil
}

func (f *fakeClient) Verify(_ context.Context, _ uuid.UUID) ([]transport.ProductApproval, error) {
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return []transport.ProductApproval{}, nil
}

func (f *fakeClient) Pending(_ context.Context, _ string) ([]transport.PendingApproval, error) {
	return f.pending, f.pendingErr
}

func (f *fakeClient) Ping(_ context.Context) error {
	f.pingCalls++
	return f.pingErr
}

type fakeOutbox struct {
	entries []outbox.Entry
	err     error
}

func (f *fakeOutbox) Enqueue(_ context.Context, dsaID uuid.UUID, products []string) (outbox.Entry, error) {
	if f.err != nil {
		return outbox.Entry{}, f.err
	}
	entry := outbox.Entry{ID: uuid.New(), DsaID: dsaID, Products: products, Status: outbox.StatusPending}
	f.entries = append(f.entries, entry)
	return entry, nil
}

type fakeEnqueuer struct {
	ids []uuid.UUID
	err error
}

func (f *fakeEnqueuer) EnqueueStage(_ context.Context, entryID uuid.UUID) error {
	f.ids = append(f.ids, entryID)
	return f.err
}

type fakeDirectory struct {
	names map[uuid.UUID]string
	codes map[uuid.UUID]string
}

func (f *fakeDirectory) Lookup(_ context.Context, dsaID uuid.UUID) (string, string, error) {
	name, ok := f.names[dsaID]
	if !ok {
		return "", "", apperr.NotFound("DSA not found")
	}
	return name, f.codes[dsaID], nil
}

func newTestService(client *fakeClient, box *fakeOutbox, enq *fakeEnqueuer, dir *fakeDirectory) *Service {
	return New(client, box, enq, dir, logger.New("development"))
}

func TestStageProductsWritesOutboxAndEnqueues(t *testing.T) {
	box := &fakeOutbox{}
	enq := &fakeEnqueuer{}
	svc := newTestService(&fakeClient{}, box, enq, &fakeDirectory{})

	dsaID := uuid.New()
	if err := svc.StageProducts(context.Background(), dsaID, []string{"VEHICLE"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(box.entries) != 1 || box.entries[0].DsaID != dsaID {
		t.Fatalf("outbox entry not written: %+v", box.entries)
	}
	if len(enq.ids) != 1 || enq.ids[0] != box.entries[0].ID {
		t.Fatalf("task not enqueued for outbox entry: %+v", enq.ids)
	}
}

func TestStageProductsSurvivesEnqueueFailure(t *testing.T) {
	box := &fakeOutbox{}
	enq := &fakeEnqueuer{err: errors.New("redis down")}
	svc := newTestService(&fakeClient{}, box, enq, &fakeDirectory{})

	if err := svc.StageProducts(context.Background(), uuid.New(), []string{"HOME"}); err != nil {
		t.Fatalf("enqueue failure must not surface, got %v", err)
	}
	if len(box.entries) != 1 {
		t.Fatal("outbox entry must exist for the dispatcher sweep")
	}
}

func TestStageProductsPropagatesOutboxFailure(t *testing.T) {
	box := &fakeOutbox{err: errors.New("db down")}
	svc := newTestService(&fakeClient{}, box, &fakeEnqueuer{}, &fakeDirectory{})

	if err := svc.StageProducts(context.Background(), uuid.New(), []string{"HOME"}); err == nil {
		t.Fatal("outbox write failure must propagate")
	}
}

func TestAuthorizePropagatesDependencyError(t *testing.T) {
	client := &fakeClient{authorizeErr: apperr.Dependency("approval service unreachable", errors.New("dial tcp"))}
	svc := newTestService(client, &fakeOutbox{}, &fakeEnqueuer{}, &fakeDirectory{})

	_, err := svc.Authorize(context.Background(), uuid.New(), "VEHICLE", "approver1")
	if !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestVerifyEmptyListIsValid(t *testing.T) {
	svc := newTestService(&fakeClient{}, &fakeOutbox{}, &fakeEnqueuer{}, &fakeDirectory{})

	result, err := svc.Verify(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("expected empty list, got %+v", result)
	}
}

func TestListPendingEnrichesAndDegrades(t *testing.T) {
	known := uuid.New()
	unknown := uuid.New()

	client := &fakeClient{pending: []transport.PendingApproval{
		{DsaID: known, ProductType: "VEHICLE", StagedDate: "2026-08-20"},
		{DsaID: unknown, ProductType: "HOME", StagedDate: "2026-08-21"},
	}}
	dir := &fakeDirectory{
		names: map[uuid.UUID]string{known: "Sharma Finserv"},
		codes: map[uuid.UUID]string{known: "DSA1724140800000"},
	}
	svc := newTestService(client, &fakeOutbox{}, &fakeEnqueuer{}, dir)

	result, err := svc.ListPending(context.Background(), "approver1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result))
	}
	if result[0].DsaName != "Sharma Finserv" || result[0].UniqueCode != "DSA1724140800000" {
		t.Fatalf("known DSA not enriched: %+v", result[0])
	}
	if result[1].DsaName != "Unknown" || result[1].UniqueCode != "N/A" {
		t.Fatalf("unknown DSA must degrade to placeholders: %+v", result[1])
	}
}

func TestListPendingPropagatesUpstreamError(t *testing.T) {
	client := &fakeClient{pendingErr: apperr.Dependency("approval service unreachable", errors.New("dial tcp"))}
	svc := newTestService(client, &fakeOutbox{}, &fakeEnqueuer{}, &fakeDirectory{})

	if _, err := svc.ListPending(context.Background(), "approver1"); !apperr.Is(err, apperr.KindDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestPingSwallowsFailures(t *testing.T) {
	client := &fakeClient{pingErr: errors.New("dial tcp")}
	svc := newTestService(client, &fakeOutbox{}, &fakeEnqueuer{}, &fakeDirectory{})

	if svc.Ping(context.Background()) {
		t.Fatal("ping must report unreachable on failure")
	}

	client.pingErr = nil
	if !svc.Ping(context.Background()) {
		t.Fatal("ping must report reachable on success")
	}
	if client.pingCalls != 2 {
		t.Fatalf("ping calls = %d, want 2", client.pingCalls)
	}
}
