package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/loandesk/loan-manager/internal/core/domain"
	"github.com/loandesk/loan-manager/internal/core/ports"
)

const recentLoansLimit = 5

// DashboardService computes read-only aggregates for the admin dashboard.
type DashboardService struct {
	loans ports.LoanRepository
	users ports.UserRepository
	log   zerolog.Logger
}

func NewDashboardService(loans ports.LoanRepository, users ports.UserRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{loans: loans, users: users, log: log}
}

// Stats assembles the full dashboard payload: loan counts by status, amount
// sums, user counts by role, and the five most recent loans.
func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	var stats ports.DashboardStats

	counts := []struct {
		status domain.LoanStatus
		dst    *int64
	}{
		{"", &stats.Loans.Total},
		{domain.StatusPending, &stats.Loans.Pending},
		{domain.StatusVerified, &stats.Loans.Verified},
		{domain.StatusApproved, &stats.Loans.Approved},
		{domain.StatusRejected, &stats.Loans.Rejected},
	}
	for _, c := range counts {
		n, err := s.loans.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, fmt.Errorf("dashboard stats: count loans: %w", err)
		}
		*c.dst = n
	}

	totals, err := s.loans.AmountTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: amount totals: %w", err)
	}
	stats.Financial.TotalAmount = totals.TotalAmount
	stats.Financial.ApprovedAmount = totals.ApprovedAmount

	userCounts := []struct {
		role domain.Role
		dst  *int64
	}{
		{"", &stats.Users.Total},
		{domain.RoleAdmin, &stats.Users.Admins},
		{domain.RoleVerifier, &stats.Users.Verifiers},
	}
	for _, c := range userCounts {
		n, err := s.users.CountByRole(ctx, c.role)
		if err != nil {
			return nil, fmt.Errorf("dashboard stats: count users: %w", err)
		}
		*c.dst = n
	}

	recent, err := s.loans.Recent(ctx, recentLoansLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: recent loans: %w", err)
	}
	stats.RecentLoans = recent

	s.log.Debug().
		Int64("total_loans", stats.Loans.Total).
		Int64("total_users", stats.Users.Total).
		Msg("dashboard stats computed")

	return &stats, nil
}

func (s *DashboardService) LoansByMonth(ctx context.Context) ([]*ports.MonthlyLoanStats, error) {
	return s.loans.CountByMonth(ctx)
}

func (s *DashboardService) LoansByStatus(ctx context.Context) ([]*ports.StatusLoanStats, error) {
	return s.loans.GroupByStatus(ctx)
}
