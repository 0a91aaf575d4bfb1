package ports

import (
	"context"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

// CreateLoanInput carries all data needed to submit a loan application.
type CreateLoanInput struct {
	FullName string
	Amount   float64
	Purpose  string
	// CreatedBy is the authenticated caller's user id, taken from the token
	// claims, never from the request body.
	CreatedBy string
}

// UpdateStatusInput carries the parameters of a status transition request.
type UpdateStatusInput struct {
	LoanID     string
	NewStatus  domain.LoanStatus
	CallerID   string
	CallerRole domain.Role
}

// LoanService defines use-case operations for loan applications.
type LoanService interface {
	Create(ctx context.Context, in CreateLoanInput) (*domain.LoanApplication, error)
	// ListAll returns every loan with owner details; admin only (enforced at
	// the route level).
	ListAll(ctx context.Context) ([]*LoanWithOwner, error)
	// ListOwn returns the caller's own loans.
	ListOwn(ctx context.Context, callerID string) ([]*domain.LoanApplication, error)
	UpdateStatus(ctx context.Context, in UpdateStatusInput) (*domain.LoanApplication, error)
}
