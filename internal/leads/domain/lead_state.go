// Package domain provides core business rules for the leads bounded context.
package domain

// LeadStatus is the lifecycle state of a loan application lead.
type LeadStatus string

const (
	StatusDraft        LeadStatus = "DRAFT"
	StatusApplied      LeadStatus = "APPLIED"
	StatusUnderProcess LeadStatus = "UNDER_PROCESS"
	StatusSanctioned   LeadStatus = "SANCTIONED"
	StatusDisbursed    LeadStatus = "DISBURSED"
	StatusRejected     LeadStatus = "REJECTED"
)

var knownLeadStatuses = map[LeadStatus]struct{}{
	StatusDraft:        {},
	StatusApplied:      {},
	StatusUnderProcess: {},
	StatusSanctioned:   {},
	StatusDisbursed:    {},
	StatusRejected:     {},
}

// IsValid reports whether the status is a known lifecycle state.
func (s LeadStatus) IsValid() bool {
	_, ok := knownLeadStatuses[s]
	return ok
}

// Mutable reports whether the lead may still be updated or deleted.
// Every status past DRAFT freezes the record.
func (s LeadStatus) Mutable() bool {
	return s == StatusDraft
}

// LeadStatusValues lists all valid statuses for enum validation.
func LeadStatusValues() []string {
	return []string{
		string(StatusDraft),
		string(StatusApplied),
		string(StatusUnderProcess),
		string(StatusSanctioned),
		string(StatusDisbursed),
		string(StatusRejected),
	}
}

// ProductType identifies the loan product a lead applies for.
type ProductType string

const (
	ProductVehicle             ProductType = "VEHICLE"
	ProductEducation           ProductType = "EDUCATION"
	ProductHome                ProductType = "HOME"
	ProductLoanAgainstProperty ProductType = "LOAN_AGAINST_PROPERTY"
)

var knownProductTypes = map[ProductType]struct{}{
	ProductVehicle:             {},
	ProductEducation:           {},
	ProductHome:                {},
	ProductLoanAgainstProperty: {},
}

// IsValid reports whether the product type is supported.
func (p ProductType) IsValid() bool {
	_, ok := knownProductTypes[p]
	return ok
}

// ProductTypeValues lists all supported product types for enum validation.
func ProductTypeValues() []string {
	return []string{
		string(ProductVehicle),
		string(ProductEducation),
		string(ProductHome),
		string(ProductLoanAgainstProperty),
	}
}
