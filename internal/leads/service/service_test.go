package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"dsa_portal_backend/internal/leads/domain"
	"dsa_portal_backend/internal/leads/repository"
	"dsa_portal_backend/platform/apperr"
	"dsa_portal_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	leads   map[uuid.UUID]repository.Lead
	deleted map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[uuid.UUID]repository.Lead), deleted: make(map[uuid.UUID]string)}
}

func (f *fakeRepo) Create(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return lead, nil
}

func (f *fakeRepo) Update(_ context.Context, lead repository.Lead) (repository.Lead, error) {
	if _, ok := f.leads[lead.ID]; !ok {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID, actor string, _ time.Time) error {
	if _, ok := f.leads[id]; !ok {
		return apperr.NotFound("lead not found")
	}
	delete(f.leads, id)
	f.deleted[id] = actor
	return nil
}

func (f *fakeRepo) Search(_ context.Context, params repository.SearchParams) (repository.SearchResult, error) {
	return repository.SearchResult{Page: params.Page, PageSize: params.PageSize}, nil
}

func (f *fakeRepo) Recent(_ context.Context, _ string, limit int) ([]repository.Summary, error) {
	return make([]repository.Summary, 0, limit), nil
}

func (f *fakeRepo) ReplaceDocuments(_ context.Context, _ uuid.UUID, _ []repository.Document) error {
	return nil
}

func newTestService(repo repository.Repository) *Service {
	return New(repo, logger.New("development"))
}

func validCreateInput() CreateInput {
	gross := decimal.RequireFromString("90000")
	return CreateInput{
		ProductType: domain.ProductVehicle,
		Basic: domain.BasicDetails{
			FirstName:        "Asha",
			LastName:         "Patil",
			DateOfBirth:      "1991-04-12",
			MobileNumber:     "9876543210",
			CurrentAddress:   "Pune",
			PermanentAddress: "Pune",
		},
		Financial: &domain.FinancialDetails{GrossMonthlyIncome: &gross},
		Loan: domain.LoanDetails{
			AmountRequested:       decimal.RequireFromString("600000"),
			RepaymentPeriodMonths: 60,
			Vehicle: &domain.VehicleDetails{
				VehicleType:     "CAR",
				Make:            "Tata",
				Model:           "Nexon",
				ExShowroomPrice: decPtr("750000"),
				InsuranceCost:   decPtr("30000"),
			},
		},
	}
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func TestCreateSetsAppliedStatusAndDerivedFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lead, err := svc.Create(context.Background(), validCreateInput(), "agent1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lead.Status != domain.StatusApplied {
		t.Fatalf("status = %s, want APPLIED", lead.Status)
	}
	if !strings.HasPrefix(lead.ReferenceCode, "BOM") || len(lead.ReferenceCode) != 10 {
		t.Fatalf("reference code %q must be BOM followed by 7 digits", lead.ReferenceCode)
	}
	if lead.Loan.Vehicle == nil || lead.Loan.Vehicle.TotalCost.String() != "780000" {
		t.Fatalf("vehicle total cost not derived, got %+v", lead.Loan.Vehicle)
	}
	if lead.Financial == nil || lead.Financial.MonthlyNetIncome.String() != "90000" {
		t.Fatalf("net income not derived, got %+v", lead.Financial)
	}
	if lead.CreatedBy != "agent1" || lead.UpdatedBy != "agent1" {
		t.Fatalf("audit actors not recorded: %+v", lead)
	}
	if !strings.HasPrefix(lead.Basic.MobileNumber, "+91") {
		t.Fatalf("mobile number not normalized: %q", lead.Basic.MobileNumber)
	}
}

func TestCreateRejectsVariantMismatch(t *testing.T) {
	svc := newTestService(newFakeRepo())

	input := validCreateInput()
	input.ProductType = domain.ProductEducation

	_, err := svc.Create(context.Background(), input, "agent1")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateRequiresDraftStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lead, err := svc.Create(context.Background(), validCreateInput(), "agent1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Creation yields APPLIED, which is frozen.
	_, err = svc.Update(context.Background(), lead.ID, UpdateInput{}, "agent1")
	if !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid state error, got %v", err)
	}

	if err := svc.Delete(context.Background(), lead.ID, "agent1"); !apperr.Is(err, apperr.KindInvalidState) {
		t.Fatalf("expected invalid state error on delete, got %v", err)
	}
}

func TestUpdateDraftRederivesAmounts(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lead, err := svc.Create(context.Background(), validCreateInput(), "agent1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lead.Status = domain.StatusDraft
	repo.leads[lead.ID] = lead

	gross := decimal.RequireFromString("120000")
	deductions := decimal.RequireFromString("20000")
	patch := UpdateInput{
		Financial: &domain.FinancialDetails{GrossMonthlyIncome: &gross, MonthlyDeductions: &deductions},
		Loan: &domain.LoanDetails{
			AmountRequested:       decimal.RequireFromString("700000"),
			RepaymentPeriodMonths: 72,
			Vehicle: &domain.VehicleDetails{
				VehicleType:     "CAR",
				Make:            "Tata",
				Model:           "Nexon EV",
				ExShowroomPrice: decPtr("1400000"),
				RoadTax:         decPtr("70000"),
			},
		},
	}

	updated, err := svc.Update(context.Background(), lead.ID, patch, "agent2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Financial.MonthlyNetIncome.String() != "100000" {
		t.Fatalf("net income = %s, want 100000", updated.Financial.MonthlyNetIncome)
	}
	if updated.Loan.Vehicle.TotalCost.String() != "1470000" {
		t.Fatalf("total cost = %s, want 1470000", updated.Loan.Vehicle.TotalCost)
	}
	if updated.UpdatedBy != "agent2" {
		t.Fatalf("updatedBy = %s, want agent2", updated.UpdatedBy)
	}
	// Untouched sub-records survive a partial update.
	if updated.Basic.FirstName != "Asha" {
		t.Fatalf("basic details lost on partial update: %+v", updated.Basic)
	}
}

func TestUpdateUnknownLead(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{}, "agent1")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteDraftSoftDeletes(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	lead, err := svc.Create(context.Background(), validCreateInput(), "agent1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lead.Status = domain.StatusDraft
	repo.leads[lead.ID] = lead

	if err := svc.Delete(context.Background(), lead.ID, "agent3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deleted[lead.ID] != "agent3" {
		t.Fatalf("soft delete actor not recorded: %v", repo.deleted)
	}
}

func TestSearchClampsPagination(t *testing.T) {
	svc := newTestService(newFakeRepo())

	result, err := svc.Search(context.Background(), repository.SearchParams{CreatedBy: "agent1", Page: -3, PageSize: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Page != 0 {
		t.Fatalf("page = %d, want 0", result.Page)
	}
	if result.PageSize != maxPageSize {
		t.Fatalf("pageSize = %d, want %d", result.PageSize, maxPageSize)
	}
}
