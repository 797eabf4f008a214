package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"dsa_portal_backend/internal/dsa/domain"
	"dsa_portal_backend/internal/dsa/repository"
	"dsa_portal_backend/platform/apperr"
	"dsa_portal_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	dsas     map[uuid.UUID]repository.Dsa
	statuses map[uuid.UUID]domain.Status
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{dsas: make(map[uuid.UUID]repository.Dsa), statuses: make(map[uuid.UUID]domain.Status)}
}

func (f *fakeRepo) Create(_ context.Context, dsa repository.Dsa) (repository.Dsa, error) {
	f.dsas[dsa.ID] = dsa
	return dsa, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Dsa, error) {
	dsa, ok := f.dsas[id]
	if !ok {
		return repository.Dsa{}, apperr.NotFound("DSA not found")
	}
	return dsa, nil
}

func (f *fakeRepo) Update(_ context.Context, dsa repository.Dsa) (repository.Dsa, error) {
	if _, ok := f.dsas[dsa.ID]; !ok {
		return repository.Dsa{}, apperr.NotFound("DSA not found")
	}
	f.dsas[dsa.ID] = dsa
	return dsa, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status, _ string, _ time.Time) error {
	if _, ok := f.dsas[id]; !ok {
		return apperr.NotFound("DSA not found")
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeRepo) Search(_ context.Context, params repository.SearchParams) (repository.SearchResult, error) {
	return repository.SearchResult{Page: params.Page, PageSize: params.PageSize}, nil
}

func (f *fakeRepo) ReplaceDocuments(_ context.Context, _ uuid.UUID, _ []repository.Document) error {
	return nil
}

type fakeStager struct {
	calls []stageCall
	err   error
}

type stageCall struct {
	dsaID    uuid.UUID
	products []string
}

func (f *fakeStager) StageProducts(_ context.Context, dsaID uuid.UUID, products []string) error {
	f.calls = append(f.calls, stageCall{dsaID: dsaID, products: products})
	return f.err
}

func newTestService(repo repository.Repository, stager ProductStager) *Service {
	return New(repo, stager, logger.New("development"))
}

func validInput() Input {
	return Input{
		Name:         "Sharma Finserv",
		MobileNumber: "9812345670",
		Email:        "contact@sharmafinserv.in",
		Category:     "PREMIUM",
		City:         "Mumbai",
		Address:      "Andheri East",
		Constitution: "PROPRIETORSHIP",
		Products:     []string{"VEHICLE", "HOME"},
	}
}

func TestCreateSetsPendingAndStagesProducts(t *testing.T) {
	repo := newFakeRepo()
	stager := &fakeStager{}
	svc := newTestService(repo, stager)

	dsa, err := svc.Create(context.Background(), validInput(), "admin1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dsa.Status != domain.StatusPending {
		t.Fatalf("status = %s, want PENDING", dsa.Status)
	}
	if !strings.HasPrefix(dsa.UniqueCode, "DSA") || len(dsa.UniqueCode) < 13 {
		t.Fatalf("unique code %q must be DSA followed by epoch millis", dsa.UniqueCode)
	}
	if len(stager.calls) != 1 {
		t.Fatalf("expected exactly one staging call, got %d", len(stager.calls))
	}
	if stager.calls[0].dsaID != dsa.ID || !reflect.DeepEqual(stager.calls[0].products, []string{"VEHICLE", "HOME"}) {
		t.Fatalf("staging call mismatch: %+v", stager.calls[0])
	}
}

func TestCreateWithoutProductsSkipsStaging(t *testing.T) {
	stager := &fakeStager{}
	svc := newTestService(newFakeRepo(), stager)

	input := validInput()
	input.Products = nil

	if _, err := svc.Create(context.Background(), input, "admin1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stager.calls) != 0 {
		t.Fatalf("expected no staging calls, got %d", len(stager.calls))
	}
}

func TestCreateSurvivesStagingFailure(t *testing.T) {
	repo := newFakeRepo()
	stager := &fakeStager{err: errors.New("redis down")}
	svc := newTestService(repo, stager)

	dsa, err := svc.Create(context.Background(), validInput(), "admin1")
	if err != nil {
		t.Fatalf("create must not fail when staging fails, got %v", err)
	}
	if _, ok := repo.dsas[dsa.ID]; !ok {
		t.Fatal("profile must be persisted despite staging failure")
	}
}

func TestUpdateRetriggersStagingOnProductChange(t *testing.T) {
	repo := newFakeRepo()
	stager := &fakeStager{}
	svc := newTestService(repo, stager)

	dsa, err := svc.Create(context.Background(), validInput(), "admin1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stager.calls = nil

	patch := validInput()
	patch.Products = []string{"EDUCATION"}
	if _, err := svc.Update(context.Background(), dsa.ID, patch, "admin2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stager.calls) != 1 || !reflect.DeepEqual(stager.calls[0].products, []string{"EDUCATION"}) {
		t.Fatalf("expected one staging call with new products, got %+v", stager.calls)
	}

	patch.Products = nil
	stager.calls = nil
	if _, err := svc.Update(context.Background(), dsa.ID, patch, "admin2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stager.calls) != 0 {
		t.Fatalf("update without product change must not restage, got %+v", stager.calls)
	}
}

func TestUpdateStatusIsUnconditional(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeStager{})

	dsa, err := svc.Create(context.Background(), validInput(), "admin1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Any valid status may replace any other, including reversals.
	for _, status := range []domain.Status{domain.StatusEmpanelled, domain.StatusRejected, domain.StatusPending, domain.StatusSuspended} {
		if err := svc.UpdateStatus(context.Background(), dsa.ID, status, "admin1"); err != nil {
			t.Fatalf("unexpected error for %s: %v", status, err)
		}
		if repo.statuses[dsa.ID] != status {
			t.Fatalf("status not written: want %s", status)
		}
	}

	if err := svc.UpdateStatus(context.Background(), dsa.ID, domain.Status("BANNED"), "admin1"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}

func TestUpdateStatusUnknownDsa(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeStager{})

	err := svc.UpdateStatus(context.Background(), uuid.New(), domain.StatusEmpanelled, "admin1")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
