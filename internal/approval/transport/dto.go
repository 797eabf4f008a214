// Package transport defines the wire shapes exchanged with the external
// Approval Service, plus the enriched shapes this backend returns.
package transport

import "github.com/google/uuid"

// StageRequest queues a DSA's products for approval.
type StageRequest struct {
	DsaID    uuid.UUID `json:"dsaId"`
	Products []string  `json:"products"`
}

// AuthorizeRequest approves one product for a DSA.
type AuthorizeRequest struct {
	DsaID       uuid.UUID `json:"dsaId"`
	ProductType string    `json:"productType"`
	UserID      string    `json:"userId"`
}

// AuthorizeResponse is the Approval Service's authorize result.
type AuthorizeResponse struct {
	DsaID        uuid.UUID `json:"dsaId"`
	ProductType  string    `json:"productType"`
	Status       string    `json:"status"`
	ApproverID   string    `json:"approverId"`
	ApprovedDate *string   `json:"approvedDate,omitempty"`
}

// VerifyRequest asks for the per-product approval state of a DSA.
type VerifyRequest struct {
	DsaID uuid.UUID `json:"dsaId"`
}

// ProductApproval is one product's approval state. Value is 1 when approved,
// 0 when still pending.
type ProductApproval struct {
	Name         string  `json:"name"`
	Value        int     `json:"value"`
	ApprovedDate *string `json:"approvedDate,omitempty"`
	ApproverID   *string `json:"approverId,omitempty"`
}

// PendingApproval is one staged product awaiting an approver's decision.
type PendingApproval struct {
	DsaID       uuid.UUID `json:"dsaId"`
	ProductType string    `json:"productType"`
	StagedDate  string    `json:"stagedDate"`
}

// PendingApprovalResponse is a pending item enriched with local DSA data.
// Unresolvable DSAs degrade to "Unknown"/"N/A" rather than failing the list.
type PendingApprovalResponse struct {
	DsaID       uuid.UUID `json:"dsaId"`
	DsaName     string    `json:"dsaName"`
	UniqueCode  string    `json:"uniqueCode"`
	ProductType string    `json:"productType"`
	StagedDate  string    `json:"stagedDate"`
}

// AuthorizeApprovalRequest is this backend's authorize endpoint body. The
// approver is taken from the authenticated identity, not the body.
type AuthorizeApprovalRequest struct {
	DsaID       uuid.UUID `json:"dsaId" validate:"required"`
	ProductType string    `json:"productType" validate:"required,product_type"`
}

// PingResponse reports Approval Service liveness.
type PingResponse struct {
	Reachable bool `json:"reachable"`
}
