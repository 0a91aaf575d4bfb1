package ports

import "context"

// LoanStats breaks down loan counts by status.
type LoanStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// FinancialStats carries the aggregate loan amount sums.
type FinancialStats struct {
	TotalAmount    float64 `json:"total_amount"`
	ApprovedAmount float64 `json:"approved_amount"`
}

// UserStats breaks down user counts by role.
type UserStats struct {
	Total     int64 `json:"total"`
	Admins    int64 `json:"admins"`
	Verifiers int64 `json:"verifiers"`
}

// DashboardStats is the full stats payload for the admin dashboard.
type DashboardStats struct {
	Loans       LoanStats        `json:"loan_stats"`
	Financial   FinancialStats   `json:"financial_stats"`
	Users       UserStats        `json:"user_stats"`
	RecentLoans []*LoanWithOwner `json:"recent_loans"`
}

// DashboardService computes read-only aggregates over the loan and user stores.
type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
	LoansByMonth(ctx context.Context) ([]*MonthlyLoanStats, error)
	LoansByStatus(ctx context.Context) ([]*StatusLoanStats, error)
}
