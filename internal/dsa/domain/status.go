// Package domain provides core business rules for the DSA bounded context.
package domain

// Status is the empanelment state of a DSA profile.
//
// Status changes are an administrative overwrite; there is deliberately no
// transition table.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusEmpanelled Status = "EMPANELLED"
	StatusRejected   Status = "REJECTED"
	StatusSuspended  Status = "SUSPENDED"
)

var knownStatuses = map[Status]struct{}{
	StatusPending:    {},
	StatusEmpanelled: {},
	StatusRejected:   {},
	StatusSuspended:  {},
}

// IsValid reports whether the status is known.
func (s Status) IsValid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// StatusValues lists all valid statuses for enum validation.
func StatusValues() []string {
	return []string{
		string(StatusPending),
		string(StatusEmpanelled),
		string(StatusRejected),
		string(StatusSuspended),
	}
}
