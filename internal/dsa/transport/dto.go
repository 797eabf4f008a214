// Package transport defines the HTTP request/response shapes for DSA profiles.
package transport

import (
	"time"

	"dsa_portal_backend/internal/dsa/repository"
	"dsa_portal_backend/internal/dsa/service"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// BankDetailsDTO carries the DSA's payout account.
type BankDetailsDTO struct {
	AccountHolderName string `json:"accountHolderName" validate:"required,max=200"`
	AccountNumber     string `json:"accountNumber" validate:"required,max=34"`
	IfscCode          string `json:"ifscCode" validate:"required,len=11"`
	BankName          string `json:"bankName" validate:"required,max=200"`
	BranchName        string `json:"branchName,omitempty" validate:"omitempty,max=200"`
}

// UpsertDsaRequest creates or fully replaces a DSA profile.
type UpsertDsaRequest struct {
	Name             string          `json:"name" validate:"required,max=200"`
	MobileNumber     string          `json:"mobileNumber" validate:"required,min=10,max=16"`
	Email            string          `json:"email" validate:"required,email"`
	Category         string          `json:"category" validate:"required,max=50"`
	City             string          `json:"city" validate:"required,max=100"`
	Address          string          `json:"address" validate:"required,max=500"`
	Constitution     string          `json:"constitution" validate:"required,max=50"`
	GstinNumber      *string         `json:"gstinNumber,omitempty" validate:"omitempty,len=15"`
	PanNumber        *string         `json:"panNumber,omitempty" validate:"omitempty,len=10"`
	ZoneName         *string         `json:"zoneName,omitempty" validate:"omitempty,max=100"`
	RiskScore        *int            `json:"riskScore,omitempty" validate:"omitempty,min=0,max=100"`
	RegistrationDate *string         `json:"registrationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EmpanelmentDate  *string         `json:"empanelmentDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AgreementDate    *string         `json:"agreementDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Products         []string        `json:"products,omitempty" validate:"omitempty,dive,product_type"`
	BankDetails      *BankDetailsDTO `json:"bankDetails,omitempty"`
}

// UpdateStatusRequest overwrites the profile status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,dsa_status"`
}

// SearchDsasRequest narrows the DSA listing.
type SearchDsasRequest struct {
	Category string `form:"category" validate:"omitempty,max=50"`
	Status   string `form:"status" validate:"omitempty,dsa_status"`
	Page     int    `form:"page" validate:"omitempty,min=0"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// DocumentDTO carries document metadata.
type DocumentDTO struct {
	DocumentType string `json:"documentType" validate:"required,max=50"`
	FileName     string `json:"fileName" validate:"required,max=255"`
	StoragePath  string `json:"storagePath" validate:"required,max=1024"`
}

// ReplaceDocumentsRequest rewrites a profile's document set.
type ReplaceDocumentsRequest struct {
	Documents []DocumentDTO `json:"documents" validate:"required,dive"`
}

// DocumentResponse is the document representation in API responses.
type DocumentResponse struct {
	ID           uuid.UUID `json:"id"`
	DocumentType string    `json:"documentType"`
	FileName     string    `json:"fileName"`
	StoragePath  string    `json:"storagePath"`
	UploadedBy   string    `json:"uploadedBy"`
	UploadedAt   string    `json:"uploadedAt"`
}

// DsaResponse is the full DSA profile representation.
type DsaResponse struct {
	ID               uuid.UUID          `json:"id"`
	UniqueCode       string             `json:"uniqueCode"`
	Name             string             `json:"name"`
	Status           string             `json:"status"`
	MobileNumber     string             `json:"mobileNumber"`
	Email            string             `json:"email"`
	Category         string             `json:"category"`
	City             string             `json:"city"`
	Address          string             `json:"address"`
	Constitution     string             `json:"constitution"`
	GstinNumber      *string            `json:"gstinNumber,omitempty"`
	PanNumber        *string            `json:"panNumber,omitempty"`
	ZoneName         *string            `json:"zoneName,omitempty"`
	RiskScore        *int               `json:"riskScore,omitempty"`
	RegistrationDate *string            `json:"registrationDate,omitempty"`
	EmpanelmentDate  *string            `json:"empanelmentDate,omitempty"`
	AgreementDate    *string            `json:"agreementDate,omitempty"`
	Products         []string           `json:"products"`
	BankDetails      *BankDetailsDTO    `json:"bankDetails,omitempty"`
	Documents        []DocumentResponse `json:"documents"`
	CreatedBy        string             `json:"createdBy"`
	CreatedAt        string             `json:"createdAt"`
	UpdatedBy        string             `json:"updatedBy"`
	UpdatedAt        string             `json:"updatedAt"`
}

// DsaSearchResponse is one page of DSA profiles.
type DsaSearchResponse struct {
	Items    []DsaResponse `json:"items"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
}

// ToInput converts the request to the service input.
func (r *UpsertDsaRequest) ToInput() service.Input {
	input := service.Input{
		Name:             r.Name,
		MobileNumber:     r.MobileNumber,
		Email:            r.Email,
		Category:         r.Category,
		City:             r.City,
		Address:          r.Address,
		Constitution:     r.Constitution,
		GstinNumber:      r.GstinNumber,
		PanNumber:        r.PanNumber,
		ZoneName:         r.ZoneName,
		RiskScore:        r.RiskScore,
		RegistrationDate: parseDate(r.RegistrationDate),
		EmpanelmentDate:  parseDate(r.EmpanelmentDate),
		AgreementDate:    parseDate(r.AgreementDate),
		Products:         r.Products,
	}
	if r.BankDetails != nil {
		input.BankDetails = &repository.BankDetails{
			AccountHolderName: r.BankDetails.AccountHolderName,
			AccountNumber:     r.BankDetails.AccountNumber,
			IfscCode:          r.BankDetails.IfscCode,
			BankName:          r.BankDetails.BankName,
			BranchName:        r.BankDetails.BranchName,
		}
	}
	return input
}

// ToDsaResponse maps a persisted profile to its API representation.
func ToDsaResponse(dsa repository.Dsa) DsaResponse {
	docs := make([]DocumentResponse, 0, len(dsa.Documents))
	for _, doc := range dsa.Documents {
		docs = append(docs, DocumentResponse{
			ID:           doc.ID,
			DocumentType: doc.DocumentType,
			FileName:     doc.FileName,
			StoragePath:  doc.StoragePath,
			UploadedBy:   doc.UploadedBy,
			UploadedAt:   doc.UploadedAt.Format(time.RFC3339),
		})
	}

	resp := DsaResponse{
		ID:               dsa.ID,
		UniqueCode:       dsa.UniqueCode,
		Name:             dsa.Name,
		Status:           string(dsa.Status),
		MobileNumber:     dsa.MobileNumber,
		Email:            dsa.Email,
		Category:         dsa.Category,
		City:             dsa.City,
		Address:          dsa.Address,
		Constitution:     dsa.Constitution,
		GstinNumber:      dsa.GstinNumber,
		PanNumber:        dsa.PanNumber,
		ZoneName:         dsa.ZoneName,
		RiskScore:        dsa.RiskScore,
		RegistrationDate: formatDate(dsa.RegistrationDate),
		EmpanelmentDate:  formatDate(dsa.EmpanelmentDate),
		AgreementDate:    formatDate(dsa.AgreementDate),
		Products:         dsa.Products,
		Documents:        docs,
		CreatedBy:        dsa.CreatedBy,
		CreatedAt:        dsa.CreatedAt.Format(time.RFC3339),
		UpdatedBy:        dsa.UpdatedBy,
		UpdatedAt:        dsa.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Products == nil {
		resp.Products = []string{}
	}
	if dsa.BankDetails != nil {
		resp.BankDetails = &BankDetailsDTO{
			AccountHolderName: dsa.BankDetails.AccountHolderName,
			AccountNumber:     dsa.BankDetails.AccountNumber,
			IfscCode:          dsa.BankDetails.IfscCode,
			BankName:          dsa.BankDetails.BankName,
			BranchName:        dsa.BankDetails.BranchName,
		}
	}
	return resp
}

func parseDate(value *string) *time.Time {
	if value == nil || *value == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil
	}
	return &parsed
}

func formatDate(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.Format(dateLayout)
	return &formatted
}
