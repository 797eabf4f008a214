package domain

import (
	"dsa_portal_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

// VehicleDetails describes the vehicle being financed.
type VehicleDetails struct {
	VehicleType     string           `json:"vehicleType"`
	Make            string           `json:"make"`
	Model           string           `json:"model"`
	ExShowroomPrice *decimal.Decimal `json:"exShowroomPrice,omitempty"`
	InsuranceCost   *decimal.Decimal `json:"insuranceCost,omitempty"`
	RoadTax         *decimal.Decimal `json:"roadTax,omitempty"`
	AccessoriesCost *decimal.Decimal `json:"accessoriesCost,omitempty"`
	DealerName      string           `json:"dealerName,omitempty"`
	DealerAddress   string           `json:"dealerAddress,omitempty"`
	// TotalCost is derived from the cost components. It is never taken from
	// client input.
	TotalCost decimal.Decimal `json:"totalCost"`
}

// Recalculate derives TotalCost from the cost components. Absent components
// count as zero.
func (v *VehicleDetails) Recalculate() {
	total := decimal.Zero
	for _, part := range []*decimal.Decimal{v.ExShowroomPrice, v.InsuranceCost, v.RoadTax, v.AccessoriesCost} {
		if part != nil {
			total = total.Add(*part)
		}
	}
	v.TotalCost = total
}

// EducationDetails describes the course being financed.
type EducationDetails struct {
	CourseName          string `json:"courseName"`
	InstitutionName     string `json:"institutionName"`
	InstitutionLocation string `json:"institutionLocation,omitempty"`
	CourseDurationYears int    `json:"courseDurationYears"`
}

// HomeDetails describes the property for a home loan.
type HomeDetails struct {
	PropertyType    string          `json:"propertyType"`
	PropertyValue   decimal.Decimal `json:"propertyValue"`
	PropertyAddress string          `json:"propertyAddress"`
}

// PropertyDetails describes the collateral for a loan against property.
type PropertyDetails struct {
	PropertyType    string          `json:"propertyType"`
	MarketValue     decimal.Decimal `json:"marketValue"`
	PropertyAddress string          `json:"propertyAddress"`
}

// LoanDetails carries the requested loan terms plus exactly one
// product-specific sub-record matching the lead's product type.
type LoanDetails struct {
	AmountRequested       decimal.Decimal   `json:"amountRequested"`
	RepaymentPeriodMonths int               `json:"repaymentPeriodMonths"`
	Vehicle               *VehicleDetails   `json:"vehicleDetails,omitempty"`
	Education             *EducationDetails `json:"educationDetails,omitempty"`
	Home                  *HomeDetails      `json:"homeDetails,omitempty"`
	Property              *PropertyDetails  `json:"propertyDetails,omitempty"`
}

// NewLoanDetails builds the loan details for the given product type. The
// sub-record matching the product type must be present; any others are
// discarded. Vehicle totals are derived here.
func NewLoanDetails(product ProductType, in LoanDetails) (LoanDetails, error) {
	out := LoanDetails{
		AmountRequested:       in.AmountRequested,
		RepaymentPeriodMonths: in.RepaymentPeriodMonths,
	}

	switch product {
	case ProductVehicle:
		if in.Vehicle == nil {
			return LoanDetails{}, apperr.Validation("vehicle details are required for product type VEHICLE")
		}
		vehicle := *in.Vehicle
		vehicle.Recalculate()
		out.Vehicle = &vehicle
	case ProductEducation:
		if in.Education == nil {
			return LoanDetails{}, apperr.Validation("education details are required for product type EDUCATION")
		}
		education := *in.Education
		out.Education = &education
	case ProductHome:
		if in.Home == nil {
			return LoanDetails{}, apperr.Validation("home details are required for product type HOME")
		}
		home := *in.Home
		out.Home = &home
	case ProductLoanAgainstProperty:
		if in.Property == nil {
			return LoanDetails{}, apperr.Validation("property details are required for product type LOAN_AGAINST_PROPERTY")
		}
		property := *in.Property
		out.Property = &property
	default:
		return LoanDetails{}, apperr.Validation("unsupported product type " + string(product))
	}

	if !out.AmountRequested.IsPositive() {
		return LoanDetails{}, apperr.Validation("amountRequested must be greater than zero")
	}
	if out.RepaymentPeriodMonths <= 0 {
		return LoanDetails{}, apperr.Validation("repaymentPeriodMonths must be greater than zero")
	}

	return out, nil
}
