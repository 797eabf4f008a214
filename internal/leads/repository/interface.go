package repository

import (
	"context"
	"time"

	"dsa_portal_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lead is the persisted loan application lead aggregate.
type Lead struct {
	ID                    uuid.UUID
	ReferenceCode         string
	Status                domain.LeadStatus
	ProductType           domain.ProductType
	Basic                 domain.BasicDetails
	Occupation            *domain.OccupationDetails
	Financial             *domain.FinancialDetails
	Loan                  domain.LoanDetails
	AssignedBranchName    *string
	AssignedBranchAddress *string
	Documents             []Document
	IsDeleted             bool
	DeletedBy             *string
	DeletedAt             *time.Time
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedBy             string
	UpdatedAt             time.Time
}

// Document is a file attached to a lead (KYC, income proof, etc).
type Document struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	DocumentType string
	FileName     string
	StoragePath  string
	UploadedBy   string
	UploadedAt   time.Time
}

// Summary is the lightweight projection returned by search and dashboards.
type Summary struct {
	ID              uuid.UUID
	ReferenceCode   string
	Status          domain.LeadStatus
	ProductType     domain.ProductType
	ApplicantName   string
	MobileNumber    string
	AmountRequested decimal.Decimal
	CreatedAt       time.Time
}

// SearchParams narrows the lead listing. Optional filters are AND-combined.
// SearchTerm is matched case-sensitively as a substring of the reference
// code, first name, last name and mobile number.
type SearchParams struct {
	CreatedBy   string
	Status      *domain.LeadStatus
	ProductType *domain.ProductType
	SearchTerm  string
	Page        int
	PageSize    int
}

// SearchResult is one page of lead summaries.
type SearchResult struct {
	Items    []Summary
	Total    int64
	Page     int
	PageSize int
}

// Repository provides persistence for leads and their documents.
// Reads exclude soft-deleted rows.
type Repository interface {
	Create(ctx context.Context, lead Lead) (Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	Update(ctx context.Context, lead Lead) (Lead, error)
	SoftDelete(ctx context.Context, id uuid.UUID, actor string, at time.Time) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	Recent(ctx context.Context, createdBy string, limit int) ([]Summary, error)
	ReplaceDocuments(ctx context.Context, leadID uuid.UUID, docs []Document) error
}
