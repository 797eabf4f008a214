package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFinancialDetailsRecalculate(t *testing.T) {
	tests := []struct {
		name    string
		details FinancialDetails
		want    string
	}{
		{
			name:    "gross minus deductions",
			details: FinancialDetails{GrossMonthlyIncome: dec("85000"), MonthlyDeductions: dec("12000")},
			want:    "73000",
		},
		{
			name:    "missing deductions default to zero",
			details: FinancialDetails{GrossMonthlyIncome: dec("85000")},
			want:    "85000",
		},
		{
			name:    "missing gross yields zero even with deductions",
			details: FinancialDetails{MonthlyDeductions: dec("12000")},
			want:    "0",
		},
		{
			name:    "input net is overwritten",
			details: FinancialDetails{GrossMonthlyIncome: dec("50000"), MonthlyNetIncome: decimal.RequireFromString("123")},
			want:    "50000",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.details.Recalculate()
			if tc.details.MonthlyNetIncome.String() != tc.want {
				t.Fatalf("net income = %s, want %s", tc.details.MonthlyNetIncome, tc.want)
			}
		})
	}
}

func TestLeadStatusMutable(t *testing.T) {
	if !StatusDraft.Mutable() {
		t.Fatal("DRAFT must be mutable")
	}
	for _, status := range []LeadStatus{StatusApplied, StatusUnderProcess, StatusSanctioned, StatusDisbursed, StatusRejected} {
		if status.Mutable() {
			t.Fatalf("%s must not be mutable", status)
		}
	}
}

func TestEnumValidity(t *testing.T) {
	if LeadStatus("ARCHIVED").IsValid() {
		t.Fatal("unknown status must be invalid")
	}
	if ProductType("GOLD").IsValid() {
		t.Fatal("unknown product type must be invalid")
	}
	for _, value := range LeadStatusValues() {
		if !LeadStatus(value).IsValid() {
			t.Fatalf("%s should be valid", value)
		}
	}
	for _, value := range ProductTypeValues() {
		if !ProductType(value).IsValid() {
			t.Fatalf("%s should be valid", value)
		}
	}
}
