package domain

import "github.com/shopspring/decimal"

// BasicDetails holds the applicant's identity and contact information.
type BasicDetails struct {
	FirstName             string `json:"firstName"`
	MiddleName            string `json:"middleName,omitempty"`
	LastName              string `json:"lastName"`
	DateOfBirth           string `json:"dateOfBirth"`
	Gender                string `json:"gender,omitempty"`
	MobileNumber          string `json:"mobileNumber"`
	AlternateMobileNumber string `json:"alternateMobileNumber,omitempty"`
	Email                 string `json:"email,omitempty"`
	FatherName            string `json:"fatherName,omitempty"`
	MaritalStatus         string `json:"maritalStatus,omitempty"`
	CurrentAddress        string `json:"currentAddress"`
	PermanentAddress      string `json:"permanentAddress"`
	PanNumber             string `json:"panNumber,omitempty"`
}

// OccupationDetails holds the applicant's employment information.
type OccupationDetails struct {
	OccupationType    string `json:"occupationType"`
	CompanyName       string `json:"companyName,omitempty"`
	Designation       string `json:"designation,omitempty"`
	YearsOfExperience *int   `json:"yearsOfExperience,omitempty"`
	OfficeAddress     string `json:"officeAddress,omitempty"`
}

// FinancialDetails holds the applicant's income picture.
type FinancialDetails struct {
	GrossMonthlyIncome *decimal.Decimal `json:"grossMonthlyIncome,omitempty"`
	MonthlyDeductions  *decimal.Decimal `json:"monthlyDeductions,omitempty"`
	// MonthlyNetIncome is derived on every write and never read from input.
	MonthlyNetIncome  decimal.Decimal  `json:"monthlyNetIncome"`
	ExistingEmiAmount *decimal.Decimal `json:"existingEmiAmount,omitempty"`
	CibilScore        *int             `json:"cibilScore,omitempty"`
}

// Recalculate derives MonthlyNetIncome as gross income minus deductions.
// A missing gross income yields zero net income regardless of deductions.
func (f *FinancialDetails) Recalculate() {
	if f.GrossMonthlyIncome == nil {
		f.MonthlyNetIncome = decimal.Zero
		return
	}
	net := *f.GrossMonthlyIncome
	if f.MonthlyDeductions != nil {
		net = net.Sub(*f.MonthlyDeductions)
	}
	f.MonthlyNetIncome = net
}
