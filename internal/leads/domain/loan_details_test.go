package domain

import (
	"strings"
	"testing"

	"dsa_portal_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

func dec(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func TestNewLoanDetailsSelectsMatchingVariant(t *testing.T) {
	tests := []struct {
		name    string
		product ProductType
		in      LoanDetails
		check   func(t *testing.T, out LoanDetails)
	}{
		{
			name:    "vehicle",
			product: ProductVehicle,
			in: LoanDetails{
				AmountRequested:       decimal.RequireFromString("500000"),
				RepaymentPeriodMonths: 60,
				Vehicle:               &VehicleDetails{VehicleType: "CAR", Make: "Maruti", Model: "Swift"},
				Education:             &EducationDetails{CourseName: "stray"},
			},
			check: func(t *testing.T, out LoanDetails) {
				if out.Vehicle == nil {
					t.Fatal("expected vehicle details")
				}
				if out.Education != nil || out.Home != nil || out.Property != nil {
					t.Fatal("expected non-matching variants to be discarded")
				}
			},
		},
		{
			name:    "education",
			product: ProductEducation,
			in: LoanDetails{
				AmountRequested:       decimal.RequireFromString("800000"),
				RepaymentPeriodMonths: 84,
				Education:             &EducationDetails{CourseName: "MBA", InstitutionName: "IIM", CourseDurationYears: 2},
			},
			check: func(t *testing.T, out LoanDetails) {
				if out.Education == nil || out.Education.CourseName != "MBA" {
					t.Fatal("expected education details")
				}
			},
		},
		{
			name:    "home",
			product: ProductHome,
			in: LoanDetails{
				AmountRequested:       decimal.RequireFromString("3000000"),
				RepaymentPeriodMonths: 240,
				Home:                  &HomeDetails{PropertyType: "FLAT", PropertyValue: decimal.RequireFromString("4500000")},
			},
			check: func(t *testing.T, out LoanDetails) {
				if out.Home == nil {
					t.Fatal("expected home details")
				}
			},
		},
		{
			name:    "loan against property",
			product: ProductLoanAgainstProperty,
			in: LoanDetails{
				AmountRequested:       decimal.RequireFromString("2000000"),
				RepaymentPeriodMonths: 120,
				Property:              &PropertyDetails{PropertyType: "COMMERCIAL", MarketValue: decimal.RequireFromString("6000000")},
			},
			check: func(t *testing.T, out LoanDetails) {
				if out.Property == nil {
					t.Fatal("expected property details")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := NewLoanDetails(tc.product, tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tc.check(t, out)
		})
	}
}

func TestNewLoanDetailsMissingVariant(t *testing.T) {
	products := []ProductType{ProductVehicle, ProductEducation, ProductHome, ProductLoanAgainstProperty}

	for _, product := range products {
		t.Run(string(product), func(t *testing.T) {
			_, err := NewLoanDetails(product, LoanDetails{AmountRequested: decimal.RequireFromString("100000")})
			if !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), string(product)) {
				t.Fatalf("expected error to name product type %s, got %q", product, err.Error())
			}
		})
	}
}

func TestNewLoanDetailsUnsupportedProduct(t *testing.T) {
	_, err := NewLoanDetails(ProductType("GOLD"), LoanDetails{})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVehicleDetailsRecalculate(t *testing.T) {
	tests := []struct {
		name    string
		details VehicleDetails
		want    string
	}{
		{
			name: "all components",
			details: VehicleDetails{
				ExShowroomPrice: dec("650000"),
				InsuranceCost:   dec("25000"),
				RoadTax:         dec("45000"),
				AccessoriesCost: dec("12000"),
			},
			want: "732000",
		},
		{
			name: "missing components count as zero",
			details: VehicleDetails{
				ExShowroomPrice: dec("650000"),
				RoadTax:         dec("45000"),
			},
			want: "695000",
		},
		{
			name:    "no components",
			details: VehicleDetails{},
			want:    "0",
		},
		{
			name: "input total is overwritten",
			details: VehicleDetails{
				ExShowroomPrice: dec("100000"),
				TotalCost:       decimal.RequireFromString("999999"),
			},
			want: "100000",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.details.Recalculate()
			if tc.details.TotalCost.String() != tc.want {
				t.Fatalf("total cost = %s, want %s", tc.details.TotalCost, tc.want)
			}
		})
	}
}
