// Package transport defines the HTTP request/response shapes for leads.
package transport

import (
	"time"

	"dsa_portal_backend/internal/leads/domain"
	"dsa_portal_backend/internal/leads/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BasicDetailsDTO carries applicant identity fields.
type BasicDetailsDTO struct {
	FirstName             string `json:"firstName" validate:"required,max=100"`
	MiddleName            string `json:"middleName,omitempty" validate:"omitempty,max=100"`
	LastName              string `json:"lastName" validate:"required,max=100"`
	DateOfBirth           string `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender                string `json:"gender,omitempty" validate:"omitempty,max=20"`
	MobileNumber          string `json:"mobileNumber" validate:"required,min=10,max=16"`
	AlternateMobileNumber string `json:"alternateMobileNumber,omitempty" validate:"omitempty,min=10,max=16"`
	Email                 string `json:"email,omitempty" validate:"omitempty,email"`
	FatherName            string `json:"fatherName,omitempty" validate:"omitempty,max=100"`
	MaritalStatus         string `json:"maritalStatus,omitempty" validate:"omitempty,max=30"`
	CurrentAddress        string `json:"currentAddress" validate:"required,max=500"`
	PermanentAddress      string `json:"permanentAddress" validate:"required,max=500"`
	PanNumber             string `json:"panNumber,omitempty" validate:"omitempty,len=10"`
}

// OccupationDetailsDTO carries applicant employment fields.
type OccupationDetailsDTO struct {
	OccupationType    string `json:"occupationType" validate:"required,max=50"`
	CompanyName       string `json:"companyName,omitempty" validate:"omitempty,max=200"`
	Designation       string `json:"designation,omitempty" validate:"omitempty,max=100"`
	YearsOfExperience *int   `json:"yearsOfExperience,omitempty" validate:"omitempty,min=0,max=60"`
	OfficeAddress     string `json:"officeAddress,omitempty" validate:"omitempty,max=500"`
}

// FinancialDetailsDTO carries applicant income fields. Net income is derived
// server-side and ignored on input.
type FinancialDetailsDTO struct {
	GrossMonthlyIncome *decimal.Decimal `json:"grossMonthlyIncome,omitempty"`
	MonthlyDeductions  *decimal.Decimal `json:"monthlyDeductions,omitempty"`
	ExistingEmiAmount  *decimal.Decimal `json:"existingEmiAmount,omitempty"`
	CibilScore         *int             `json:"cibilScore,omitempty" validate:"omitempty,min=300,max=900"`
}

// VehicleDetailsDTO carries vehicle loan fields. Total cost is derived
// server-side and ignored on input.
type VehicleDetailsDTO struct {
	VehicleType     string           `json:"vehicleType" validate:"required,max=50"`
	Make            string           `json:"make" validate:"required,max=100"`
	Model           string           `json:"model" validate:"required,max=100"`
	ExShowroomPrice *decimal.Decimal `json:"exShowroomPrice,omitempty"`
	InsuranceCost   *decimal.Decimal `json:"insuranceCost,omitempty"`
	RoadTax         *decimal.Decimal `json:"roadTax,omitempty"`
	AccessoriesCost *decimal.Decimal `json:"accessoriesCost,omitempty"`
	DealerName      string           `json:"dealerName,omitempty" validate:"omitempty,max=200"`
	DealerAddress   string           `json:"dealerAddress,omitempty" validate:"omitempty,max=500"`
}

// EducationDetailsDTO carries education loan fields.
type EducationDetailsDTO struct {
	CourseName          string `json:"courseName" validate:"required,max=200"`
	InstitutionName     string `json:"institutionName" validate:"required,max=200"`
	InstitutionLocation string `json:"institutionLocation,omitempty" validate:"omitempty,max=200"`
	CourseDurationYears int    `json:"courseDurationYears" validate:"required,min=1,max=10"`
}

// HomeDetailsDTO carries home loan fields.
type HomeDetailsDTO struct {
	PropertyType    string          `json:"propertyType" validate:"required,max=50"`
	PropertyValue   decimal.Decimal `json:"propertyValue" validate:"required"`
	PropertyAddress string          `json:"propertyAddress" validate:"required,max=500"`
}

// PropertyDetailsDTO carries loan-against-property fields.
type PropertyDetailsDTO struct {
	PropertyType    string          `json:"propertyType" validate:"required,max=50"`
	MarketValue     decimal.Decimal `json:"marketValue" validate:"required"`
	PropertyAddress string          `json:"propertyAddress" validate:"required,max=500"`
}

// LoanDetailsDTO carries the requested terms plus the product-specific
// sub-record matching the lead's product type.
type LoanDetailsDTO struct {
	AmountRequested       decimal.Decimal      `json:"amountRequested"`
	RepaymentPeriodMonths int                  `json:"repaymentPeriodMonths"`
	VehicleDetails        *VehicleDetailsDTO   `json:"vehicleDetails,omitempty"`
	EducationDetails      *EducationDetailsDTO `json:"educationDetails,omitempty"`
	HomeDetails           *HomeDetailsDTO      `json:"homeDetails,omitempty"`
	PropertyDetails       *PropertyDetailsDTO  `json:"propertyDetails,omitempty"`
}

// CreateLeadRequest registers a new lead.
type CreateLeadRequest struct {
	ProductType           string                `json:"productType" validate:"required,product_type"`
	BasicDetails          *BasicDetailsDTO      `json:"basicDetails" validate:"required"`
	OccupationDetails     *OccupationDetailsDTO `json:"occupationDetails,omitempty"`
	FinancialDetails      *FinancialDetailsDTO  `json:"financialDetails,omitempty"`
	LoanDetails           *LoanDetailsDTO       `json:"loanDetails" validate:"required"`
	AssignedBranchName    *string               `json:"assignedBranchName,omitempty" validate:"omitempty,max=200"`
	AssignedBranchAddress *string               `json:"assignedBranchAddress,omitempty" validate:"omitempty,max=500"`
}

// UpdateLeadRequest partially updates a draft lead. Provided sub-records
// replace the stored ones wholesale.
type UpdateLeadRequest struct {
	BasicDetails          *BasicDetailsDTO      `json:"basicDetails,omitempty"`
	OccupationDetails     *OccupationDetailsDTO `json:"occupationDetails,omitempty"`
	FinancialDetails      *FinancialDetailsDTO  `json:"financialDetails,omitempty"`
	LoanDetails           *LoanDetailsDTO       `json:"loanDetails,omitempty"`
	AssignedBranchName    *string               `json:"assignedBranchName,omitempty" validate:"omitempty,max=200"`
	AssignedBranchAddress *string               `json:"assignedBranchAddress,omitempty" validate:"omitempty,max=500"`
}

// SearchLeadsRequest narrows the lead listing.
type SearchLeadsRequest struct {
	Status      string `form:"status" validate:"omitempty,lead_status"`
	ProductType string `form:"productType" validate:"omitempty,product_type"`
	SearchTerm  string `form:"searchTerm" validate:"omitempty,max=100"`
	Page        int    `form:"page" validate:"omitempty,min=0"`
	PageSize    int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// DocumentDTO carries document metadata.
type DocumentDTO struct {
	DocumentType string `json:"documentType" validate:"required,max=50"`
	FileName     string `json:"fileName" validate:"required,max=255"`
	StoragePath  string `json:"storagePath" validate:"required,max=1024"`
}

// ReplaceDocumentsRequest rewrites a draft lead's document set.
type ReplaceDocumentsRequest struct {
	Documents []DocumentDTO `json:"documents" validate:"required,dive"`
}

// LeadResponse is the full lead representation.
type LeadResponse struct {
	ID                    uuid.UUID                 `json:"id"`
	ReferenceCode         string                    `json:"referenceCode"`
	Status                string                    `json:"status"`
	ProductType           string                    `json:"productType"`
	BasicDetails          domain.BasicDetails       `json:"basicDetails"`
	OccupationDetails     *domain.OccupationDetails `json:"occupationDetails,omitempty"`
	FinancialDetails      *domain.FinancialDetails  `json:"financialDetails,omitempty"`
	LoanDetails           domain.LoanDetails        `json:"loanDetails"`
	AssignedBranchName    *string                   `json:"assignedBranchName,omitempty"`
	AssignedBranchAddress *string                   `json:"assignedBranchAddress,omitempty"`
	Documents             []DocumentResponse        `json:"documents"`
	CreatedBy             string                    `json:"createdBy"`
	CreatedAt             string                    `json:"createdAt"`
	UpdatedBy             string                    `json:"updatedBy"`
	UpdatedAt             string                    `json:"updatedAt"`
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

// LeadSummaryResponse is the lightweight listing projection.
type LeadSummaryResponse struct {
	ID              uuid.UUID       `json:"id"`
	ReferenceCode   string          `json:"referenceCode"`
	Status          string          `json:"status"`
	ProductType     string          `json:"productType"`
	ApplicantName   string          `json:"applicantName"`
	MobileNumber    string          `json:"mobileNumber"`
	AmountRequested decimal.Decimal `json:"amountRequested"`
	CreatedAt       string          `json:"createdAt"`
}

// LeadSearchResponse is one page of summaries.
type LeadSearchResponse struct {
	Items    []LeadSummaryResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

// ToLeadResponse maps a persisted lead to its API representation.
func ToLeadResponse(lead repository.Lead) LeadResponse {
	docs := make([]DocumentResponse, 0, len(lead.Documents))
	for _, doc := range lead.Documents {
		docs = append(docs, DocumentResponse{
			ID:           doc.ID,
			DocumentType: doc.DocumentType,
			FileName:     doc.FileName,
			StoragePath:  doc.StoragePath,
			UploadedBy:   doc.UploadedBy,
			UploadedAt:   doc.UploadedAt.Format(time.RFC3339),
		})
	}

	return LeadResponse{
		ID:                    lead.ID,
		ReferenceCode:         lead.ReferenceCode,
		Status:                string(lead.Status),
		ProductType:           string(lead.ProductType),
		BasicDetails:          lead.Basic,
		OccupationDetails:     lead.Occupation,
		FinancialDetails:      lead.Financial,
		LoanDetails:           lead.Loan,
		AssignedBranchName:    lead.AssignedBranchName,
		AssignedBranchAddress: lead.AssignedBranchAddress,
		Documents:             docs,
		CreatedBy:             lead.CreatedBy,
		CreatedAt:             lead.CreatedAt.Format(time.RFC3339),
		UpdatedBy:             lead.UpdatedBy,
		UpdatedAt:             lead.UpdatedAt.Format(time.RFC3339),
	}
}

// ToSummaryResponse maps a summary row to its API representation.
func ToSummaryResponse(summary repository.Summary) LeadSummaryResponse {
	return LeadSummaryResponse{
		ID:              summary.ID,
		ReferenceCode:   summary.ReferenceCode,
		Status:          string(summary.Status),
		ProductType:     string(summary.ProductType),
		ApplicantName:   summary.ApplicantName,
		MobileNumber:    summary.MobileNumber,
		AmountRequested: summary.AmountRequested,
		CreatedAt:       summary.CreatedAt.Format(time.RFC3339),
	}
}

// ToBasicDetails converts the DTO to its domain form.
func (d *BasicDetailsDTO) ToBasicDetails() domain.BasicDetails {
	return domain.BasicDetails{
		FirstName:             d.FirstName,
		MiddleName:            d.MiddleName,
		LastName:              d.LastName,
		DateOfBirth:           d.DateOfBirth,
		Gender:                d.Gender,
		MobileNumber:          d.MobileNumber,
		AlternateMobileNumber: d.AlternateMobileNumber,
		Email:                 d.Email,
		FatherName:            d.FatherName,
		MaritalStatus:         d.MaritalStatus,
		CurrentAddress:        d.CurrentAddress,
		PermanentAddress:      d.PermanentAddress,
		PanNumber:             d.PanNumber,
	}
}

// ToOccupationDetails converts the DTO to its domain form.
func (d *OccupationDetailsDTO) ToOccupationDetails() *domain.OccupationDetails {
	if d == nil {
		return nil
	}
	return &domain.OccupationDetails{
		OccupationType:    d.OccupationType,
		CompanyName:       d.CompanyName,
		Designation:       d.Designation,
		YearsOfExperience: d.YearsOfExperience,
		OfficeAddress:     d.OfficeAddress,
	}
}

// ToFinancialDetails converts the DTO to its domain form.
func (d *FinancialDetailsDTO) ToFinancialDetails() *domain.FinancialDetails {
	if d == nil {
		return nil
	}
	return &domain.FinancialDetails{
		GrossMonthlyIncome: d.GrossMonthlyIncome,
		MonthlyDeductions:  d.MonthlyDeductions,
		ExistingEmiAmount:  d.ExistingEmiAmount,
		CibilScore:         d.CibilScore,
	}
}

// ToLoanDetails converts the DTO to its domain form. Derived amounts are
// recomputed by the domain constructor, not copied from input.
func (d *LoanDetailsDTO) ToLoanDetails() domain.LoanDetails {
	loan := domain.LoanDetails{
		AmountRequested:       d.AmountRequested,
		RepaymentPeriodMonths: d.RepaymentPeriodMonths,
	}
	if d.VehicleDetails != nil {
		loan.Vehicle = &domain.VehicleDetails{
			VehicleType:     d.VehicleDetails.VehicleType,
			Make:            d.VehicleDetails.Make,
			Model:           d.VehicleDetails.Model,
			ExShowroomPrice: d.VehicleDetails.ExShowroomPrice,
			InsuranceCost:   d.VehicleDetails.InsuranceCost,
			RoadTax:         d.VehicleDetails.RoadTax,
			AccessoriesCost: d.VehicleDetails.AccessoriesCost,
			DealerName:      d.VehicleDetails.DealerName,
			DealerAddress:   d.VehicleDetails.DealerAddress,
		}
	}
	if d.EducationDetails != nil {
		loan.Education = &domain.EducationDetails{
			CourseName:          d.EducationDetails.CourseName,
			InstitutionName:     d.EducationDetails.InstitutionName,
			InstitutionLocation: d.EducationDetails.InstitutionLocation,
			CourseDurationYears: d.EducationDetails.CourseDurationYears,
		}
	}
	if d.HomeDetails != nil {
		loan.Home = &domain.HomeDetails{
			PropertyType:    d.HomeDetails.PropertyType,
			PropertyValue:   d.HomeDetails.PropertyValue,
			PropertyAddress: d.HomeDetails.PropertyAddress,
		}
	}
	if d.PropertyDetails != nil {
		loan.Property = &domain.PropertyDetails{
			PropertyType:    d.PropertyDetails.PropertyType,
			MarketValue:     d.PropertyDetails.MarketValue,
			PropertyAddress: d.PropertyDetails.PropertyAddress,
		}
	}
	return loan
}
