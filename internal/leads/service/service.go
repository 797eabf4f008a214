// Package service implements lead lifecycle business logic.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"dsa_portal_backend/internal/leads/domain"
	"dsa_portal_backend/internal/leads/repository"
	"dsa_portal_backend/platform/apperr"
	"dsa_portal_backend/platform/logger"
	"dsa_portal_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	defaultRecent   = 10
	maxRecent       = 50
)

// Service implements lead use cases.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

// New creates a new leads service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// CreateInput carries the fields accepted when registering a new lead.
type CreateInput struct {
	ProductType           domain.ProductType
	Basic                 domain.BasicDetails
	Occupation            *domain.OccupationDetails
	Financial             *domain.FinancialDetails
	Loan                  domain.LoanDetails
	AssignedBranchName    *string
	AssignedBranchAddress *string
}

// UpdateInput carries a partial lead update. Provided sub-records replace the
// stored ones wholesale; absent sub-records are left untouched.
type UpdateInput struct {
	Basic                 *domain.BasicDetails
	Occupation            *domain.OccupationDetails
	Financial             *domain.FinancialDetails
	Loan                  *domain.LoanDetails
	AssignedBranchName    *string
	AssignedBranchAddress *string
}

// Create registers a new lead on behalf of actor. New leads enter the
// pipeline as APPLIED.
func (s *Service) Create(ctx context.Context, input CreateInput, actor string) (repository.Lead, error) {
	if !input.ProductType.IsValid() {
		return repository.Lead{}, apperr.Validation("unsupported product type " + string(input.ProductType))
	}

	loan, err := domain.NewLoanDetails(input.ProductType, input.Loan)
	if err != nil {
		return repository.Lead{}, err
	}

	basic := input.Basic
	normalizeContacts(&basic)

	financial := input.Financial
	if financial != nil {
		recalculated := *financial
		recalculated.Recalculate()
		financial = &recalculated
	}

	now := s.now()
	lead := repository.Lead{
		ID:                    uuid.New(),
		ReferenceCode:         newReferenceCode(),
		Status:                domain.StatusApplied,
		ProductType:           input.ProductType,
		Basic:                 basic,
		Occupation:            input.Occupation,
		Financial:             financial,
		Loan:                  loan,
		AssignedBranchName:    input.AssignedBranchName,
		AssignedBranchAddress: input.AssignedBranchAddress,
		CreatedBy:             actor,
		CreatedAt:             now,
		UpdatedBy:             actor,
		UpdatedAt:             now,
	}

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return repository.Lead{}, err
	}

	s.log.Info("lead created", "leadId", created.ID, "referenceCode", created.ReferenceCode, "productType", created.ProductType, "createdBy", actor)
	return created, nil
}

// GetByID retrieves a single lead.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	return s.repo.GetByID(ctx, id)
}

// Update applies a partial update to a draft lead. Derived amounts are
// recomputed on every write.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor string) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}
	if !lead.Status.Mutable() {
		return repository.Lead{}, apperr.InvalidState("lead can only be updated in DRAFT status")
	}

	if input.Basic != nil {
		basic := *input.Basic
		normalizeContacts(&basic)
		lead.Basic = basic
	}
	if input.Occupation != nil {
		occupation := *input.Occupation
		lead.Occupation = &occupation
	}
	if input.Financial != nil {
		lead.Financial = input.Financial
	}
	if input.Loan != nil {
		loan, err := domain.NewLoanDetails(lead.ProductType, *input.Loan)
		if err != nil {
			return repository.Lead{}, err
		}
		lead.Loan = loan
	}
	if input.AssignedBranchName != nil {
		lead.AssignedBranchName = input.AssignedBranchName
	}
	if input.AssignedBranchAddress != nil {
		lead.AssignedBranchAddress = input.AssignedBranchAddress
	}

	if lead.Financial != nil {
		recalculated := *lead.Financial
		recalculated.Recalculate()
		lead.Financial = &recalculated
	}
	if lead.Loan.Vehicle != nil {
		lead.Loan.Vehicle.Recalculate()
	}

	lead.UpdatedBy = actor
	lead.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, lead)
	if err != nil {
		return repository.Lead{}, err
	}

	s.log.Info("lead updated", "leadId", updated.ID, "updatedBy", actor)
	return updated, nil
}

// Delete soft-deletes a draft lead.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !lead.Status.Mutable() {
		return apperr.InvalidState("lead can only be deleted in DRAFT status")
	}

	if err := s.repo.SoftDelete(ctx, id, actor, s.now()); err != nil {
		return err
	}

	s.log.Info("lead deleted", "leadId", id, "deletedBy", actor)
	return nil
}

// Search lists the caller's leads with optional filters, paginated.
func (s *Service) Search(ctx context.Context, params repository.SearchParams) (repository.SearchResult, error) {
	if params.Page < 0 {
		params.Page = 0
	}
	if params.PageSize <= 0 {
		params.PageSize = defaultPageSize
	}
	if params.PageSize > maxPageSize {
		params.PageSize = maxPageSize
	}
	return s.repo.Search(ctx, params)
}

// Recent lists the caller's most recently created leads.
func (s *Service) Recent(ctx context.Context, createdBy string, limit int) ([]repository.Summary, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	return s.repo.Recent(ctx, createdBy, limit)
}

// ReplaceDocuments rewrites the document metadata attached to a draft lead.
func (s *Service) ReplaceDocuments(ctx context.Context, id uuid.UUID, docs []repository.Document, actor string) error {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !lead.Status.Mutable() {
		return apperr.InvalidState("lead can only be updated in DRAFT status")
	}

	now := s.now()
	for i := range docs {
		if docs[i].ID == uuid.Nil {
			docs[i].ID = uuid.New()
		}
		docs[i].LeadID = id
		docs[i].UploadedBy = actor
		docs[i].UploadedAt = now
	}

	return s.repo.ReplaceDocuments(ctx, id, docs)
}

func normalizeContacts(basic *domain.BasicDetails) {
	basic.MobileNumber = phone.NormalizeE164(basic.MobileNumber)
	if basic.AlternateMobileNumber != "" {
		basic.AlternateMobileNumber = phone.NormalizeE164(basic.AlternateMobileNumber)
	}
}

func newReferenceCode() string {
	return fmt.Sprintf("BOM%d", 1000000+rand.Intn(9000000))
}
