package ports

import (
	"context"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

// LoanOwner is the resolved owner of a loan (username/email joined from the
// users collection).
type LoanOwner struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// LoanWithOwner is a loan application with its owner resolved.
type LoanWithOwner struct {
	domain.LoanApplication
	Owner *LoanOwner `json:"owner,omitempty"`
}

// MonthlyLoanStats is the count and amount of loans created in one calendar month.
type MonthlyLoanStats struct {
	Year   int     `json:"year" bson:"year"`
	Month  int     `json:"month" bson:"month"`
	Count  int64   `json:"count" bson:"count"`
	Amount float64 `json:"amount" bson:"amount"`
}

// StatusLoanStats is the count and amount of loans in one status.
type StatusLoanStats struct {
	Status domain.LoanStatus `json:"status" bson:"status"`
	Count  int64             `json:"count" bson:"count"`
	Amount float64           `json:"amount" bson:"amount"`
}

// AmountTotals carries the aggregate sums over all loans.
type AmountTotals struct {
	TotalAmount    float64 `bson:"total_amount"`
	ApprovedAmount float64 `bson:"approved_amount"`
}

// LoanRepository defines persistence operations for loan applications.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.LoanApplication) (*domain.LoanApplication, error)
	FindByID(ctx context.Context, id string) (*domain.LoanApplication, error)
	// FindByOwner returns loans created by the given user, newest first.
	FindByOwner(ctx context.Context, userID string) ([]*domain.LoanApplication, error)
	// FindAllWithOwner returns every loan with its owner resolved, newest first.
	FindAllWithOwner(ctx context.Context) ([]*LoanWithOwner, error)
	// UpdateStatus sets the loan's status and refreshes updated_at; all other
	// fields are left untouched.
	UpdateStatus(ctx context.Context, id string, status domain.LoanStatus) (*domain.LoanApplication, error)

	// CountByStatus returns the number of loans with the given status.
	// An empty status counts all loans.
	CountByStatus(ctx context.Context, status domain.LoanStatus) (int64, error)
	AmountTotals(ctx context.Context) (*AmountTotals, error)
	// Recent returns the most recently created loans with owner usernames resolved.
	Recent(ctx context.Context, limit int) ([]*LoanWithOwner, error)
	CountByMonth(ctx context.Context) ([]*MonthlyLoanStats, error)
	GroupByStatus(ctx context.Context) ([]*StatusLoanStats, error)
}
