// Package service implements DSA profile business logic.
package service

import (
	"context"
	"fmt"
	"time"

	"dsa_portal_backend/internal/dsa/domain"
	"dsa_portal_backend/internal/dsa/repository"
	"dsa_portal_backend/platform/apperr"
	"dsa_portal_backend/platform/logger"
	"dsa_portal_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ProductStager queues the DSA's products for external approval.
// Implemented by the approval module.
type ProductStager interface {
	StageProducts(ctx context.Context, dsaID uuid.UUID, products []string) error
}

// Service implements DSA profile use cases.
type Service struct {
	repo   repository.Repository
	stager ProductStager
	log    *logger.Logger
	now    func() time.Time
}

// New creates a new DSA service.
func New(repo repository.Repository, stager ProductStager, log *logger.Logger) *Service {
	return &Service{repo: repo, stager: stager, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// Input carries the fields accepted when creating or updating a DSA profile.
type Input struct {
	Name             string
	MobileNumber     string
	Email            string
	Category         string
	City             string
	Address          string
	Constitution     string
	GstinNumber      *string
	PanNumber        *string
	ZoneName         *string
	RiskScore        *int
	RegistrationDate *time.Time
	EmpanelmentDate  *time.Time
	AgreementDate    *time.Time
	Products         []string
	BankDetails      *repository.BankDetails
}

// Create registers a new DSA profile. New profiles start as PENDING. A
// non-empty product set queues approval staging; staging failures are logged
// and never fail the create.
func (s *Service) Create(ctx context.Context, input Input, actor string) (repository.Dsa, error) {
	now := s.now()
	dsa := repository.Dsa{
		ID:               uuid.New(),
		UniqueCode:       newUniqueCode(now),
		Name:             input.Name,
		Status:           domain.StatusPending,
		MobileNumber:     phone.NormalizeE164(input.MobileNumber),
		Email:            input.Email,
		Category:         input.Category,
		City:             input.City,
		Address:          input.Address,
		Constitution:     input.Constitution,
		GstinNumber:      input.GstinNumber,
		PanNumber:        input.PanNumber,
		ZoneName:         input.ZoneName,
		RiskScore:        input.RiskScore,
		RegistrationDate: input.RegistrationDate,
		EmpanelmentDate:  input.EmpanelmentDate,
		AgreementDate:    input.AgreementDate,
		Products:         input.Products,
		BankDetails:      input.BankDetails,
		CreatedBy:        actor,
		CreatedAt:        now,
		UpdatedBy:        actor,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, dsa)
	if err != nil {
		return repository.Dsa{}, err
	}

	s.log.Info("dsa created", "dsaId", created.ID, "uniqueCode", created.UniqueCode, "createdBy", actor)
	s.stageProducts(ctx, created.ID, created.Products)

	return created, nil
}

// GetByID retrieves a DSA profile.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (repository.Dsa, error) {
	return s.repo.GetByID(ctx, id)
}

// Update replaces the profile's scalar fields and, when provided, its bank
// details. A replaced product set re-queues approval staging.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input, actor string) (repository.Dsa, error) {
	dsa, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Dsa{}, err
	}

	dsa.Name = input.Name
	dsa.MobileNumber = phone.NormalizeE164(input.MobileNumber)
	dsa.Email = input.Email
	dsa.Category = input.Category
	dsa.City = input.City
	dsa.Address = input.Address
	dsa.Constitution = input.Constitution
	dsa.GstinNumber = input.GstinNumber
	dsa.PanNumber = input.PanNumber
	dsa.ZoneName = input.ZoneName
	dsa.RiskScore = input.RiskScore
	dsa.RegistrationDate = input.RegistrationDate
	dsa.EmpanelmentDate = input.EmpanelmentDate
	dsa.AgreementDate = input.AgreementDate
	if input.BankDetails != nil {
		dsa.BankDetails = input.BankDetails
	}

	productsChanged := input.Products != nil
	if productsChanged {
		dsa.Products = input.Products
	}

	dsa.UpdatedBy = actor
	dsa.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, dsa)
	if err != nil {
		return repository.Dsa{}, err
	}

	s.log.Info("dsa updated", "dsaId", updated.ID, "updatedBy", actor)
	if productsChanged {
		s.stageProducts(ctx, updated.ID, updated.Products)
	}

	return updated, nil
}

// UpdateStatus overwrites the profile status. Any valid status may replace
// any other; there is no transition check.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, actor string) error {
	if !status.IsValid() {
		return apperr.Validation("unsupported DSA status " + string(status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status, actor, s.now()); err != nil {
		return err
	}

	s.log.Info("dsa status updated", "dsaId", id, "status", status, "updatedBy", actor)
	return nil
}

// Search lists DSA profiles with optional filters, paginated.
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

// ReplaceDocuments rewrites the document metadata attached to a profile.
func (s *Service) ReplaceDocuments(ctx context.Context, id uuid.UUID, docs []repository.Document, actor string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	now := s.now()
	for i := range docs {
		if docs[i].ID == uuid.Nil {
			docs[i].ID = uuid.New()
		}
		docs[i].DsaID = id
		docs[i].UploadedBy = actor
		docs[i].UploadedAt = now
	}

	return s.repo.ReplaceDocuments(ctx, id, docs)
}

// stageProducts is fire-and-forget: the profile write has already committed,
// and approval staging catches up asynchronously.
func (s *Service) stageProducts(ctx context.Context, dsaID uuid.UUID, products []string) {
	if len(products) == 0 || s.stager == nil {
		return
	}
	if err := s.stager.StageProducts(ctx, dsaID, products); err != nil {
		s.log.Error("approval staging failed", "dsaId", dsaID, "error", err)
	}
}

func newUniqueCode(now time.Time) string {
	return fmt.Sprintf("DSA%d", now.UnixMilli())
}
