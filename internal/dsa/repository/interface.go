package repository

import (
	"context"
	"time"

	"dsa_portal_backend/internal/dsa/domain"

	"github.com/google/uuid"
)

// Dsa is a persisted Direct Selling Agent profile.
type Dsa struct {
	ID               uuid.UUID
	UniqueCode       string
	Name             string
	Status           domain.Status
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
	BankDetails      *BankDetails
	Documents        []Document
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedBy        string
	UpdatedAt        time.Time
}

// BankDetails holds the DSA's payout account.
type BankDetails struct {
	AccountHolderName string `json:"accountHolderName"`
	AccountNumber     string `json:"accountNumber"`
	IfscCode          string `json:"ifscCode"`
	BankName          string `json:"bankName"`
	BranchName        string `json:"branchName,omitempty"`
}

// Document is a file attached to a DSA profile (agreement, KYC, etc).
type Document struct {
	ID           uuid.UUID
	DsaID        uuid.UUID
	DocumentType string
	FileName     string
	StoragePath  string
	UploadedBy   string
	UploadedAt   time.Time
}

// SearchParams narrows the DSA listing. Optional filters are AND-combined.
type SearchParams struct {
	Category *string
	Status   *domain.Status
	Page     int
	PageSize int
}

// SearchResult is one page of DSA profiles.
type SearchResult struct {
	Items    []Dsa
	Total    int64
	Page     int
	PageSize int
}

// Repository provides persistence for DSA profiles.
type Repository interface {
	Create(ctx context.Context, dsa Dsa) (Dsa, error)
	GetByID(ctx context.Context, id uuid.UUID) (Dsa, error)
	Update(ctx context.Context, dsa Dsa) (Dsa, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status, actor string, at time.Time) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
	ReplaceDocuments(ctx context.Context, dsaID uuid.UUID, docs []Document) error
}
