package domain

import (
	"errors"
	"time"
)

// LoanStatus represents the lifecycle state of a loan application.
type LoanStatus string

const (
	StatusPending  LoanStatus = "pending"
	StatusVerified LoanStatus = "verified"
	StatusApproved LoanStatus = "approved"
	StatusRejected LoanStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// approved and rejected are terminal.
var validTransitions = map[LoanStatus][]LoanStatus{
	StatusPending:  {StatusVerified, StatusRejected},
	StatusVerified: {StatusApproved, StatusRejected},
}

var ErrLoanNotFound = errors.New("loan application not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrInvalidStatus = errors.New("invalid loan status")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsValid reports whether s is one of the known loan statuses.
func (s LoanStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LoanApplication is the core aggregate root.
// CreatedBy is set once at creation and never changes; status moves only
// along the validTransitions edges (role checks live in the service layer).
type LoanApplication struct {
	ID        string     `json:"id"`
	FullName  string     `json:"full_name"`
	Amount    float64    `json:"amount"`
	Purpose   string     `json:"purpose"`
	Status    LoanStatus `json:"status"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
