package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

func TestDashboardService_Stats(t *testing.T) {
	loans := newStubLoanRepo()
	users := newStubUserRepo()
	svc := NewDashboardService(loans, users, zerolog.Nop())

	_, _ = users.Create(context.Background(), &domain.User{Username: "root", Email: "root@example.com", Role: domain.RoleAdmin})
	_, _ = users.Create(context.Background(), &domain.User{Username: "v1", Email: "v1@example.com", Role: domain.RoleVerifier})
	_, _ = users.Create(context.Background(), &domain.User{Username: "v2", Email: "v2@example.com", Role: domain.RoleVerifier})

	seedLoan(t, loans, "user-1", domain.StatusPending)
	seedLoan(t, loans, "user-1", domain.StatusVerified)
	approved := seedLoan(t, loans, "user-2", domain.StatusPending)
	if _, err := loans.UpdateStatus(context.Background(), approved.ID, domain.StatusApproved); err != nil {
		t.Fatalf("seed approve: %v", err)
	}

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}

	if stats.Loans.Total != 3 {
		t.Errorf("total loans: got %d, want 3", stats.Loans.Total)
	}
	if stats.Loans.Pending != 1 || stats.Loans.Verified != 1 || stats.Loans.Approved != 1 || stats.Loans.Rejected != 0 {
		t.Errorf("unexpected loan breakdown: %+v", stats.Loans)
	}
	if stats.Financial.TotalAmount != 75000 {
		t.Errorf("total amount: got %v, want 75000", stats.Financial.TotalAmount)
	}
	if stats.Financial.ApprovedAmount != 25000 {
		t.Errorf("approved amount: got %v, want 25000", stats.Financial.ApprovedAmount)
	}
	if stats.Users.Total != 3 || stats.Users.Admins != 1 || stats.Users.Verifiers != 2 {
		t.Errorf("unexpected user breakdown: %+v", stats.Users)
	}
	if len(stats.RecentLoans) != 3 {
		t.Errorf("recent loans: got %d, want 3", len(stats.RecentLoans))
	}
}

func TestDashboardService_Stats_Empty(t *testing.T) {
	svc := NewDashboardService(newStubLoanRepo(), newStubUserRepo(), zerolog.Nop())

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Loans.Total != 0 || stats.Financial.TotalAmount != 0 || stats.Users.Total != 0 {
		t.Fatalf("expected zeroed stats, got %+v", stats)
	}
}

func TestDashboardService_LoansByMonth(t *testing.T) {
	loans := newStubLoanRepo()
	svc := NewDashboardService(loans, newStubUserRepo(), zerolog.Nop())

	jan := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{jan, jan.AddDate(0, 0, 5), feb} {
		if _, err := loans.Create(context.Background(), &domain.LoanApplication{
			FullName: "x", Amount: 1000, Purpose: "p",
			Status: domain.StatusPending, CreatedBy: "user-1",
			CreatedAt: ts, UpdatedAt: ts,
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rows, err := svc.LoansByMonth(context.Background())
	if err != nil {
		t.Fatalf("LoansByMonth returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 months, got %d", len(rows))
	}

	var total int64
	for _, row := range rows {
		total += row.Count
	}
	if total != 3 {
		t.Fatalf("expected 3 loans across months, got %d", total)
	}
}

func TestDashboardService_LoansByStatus(t *testing.T) {
	loans := newStubLoanRepo()
	svc := NewDashboardService(loans, newStubUserRepo(), zerolog.Nop())

	seedLoan(t, loans, "user-1", domain.StatusPending)
	seedLoan(t, loans, "user-1", domain.StatusPending)
	seedLoan(t, loans, "user-1", domain.StatusApproved)

	rows, err := svc.LoansByStatus(context.Background())
	if err != nil {
		t.Fatalf("LoansByStatus returned error: %v", err)
	}

	byStatus := make(map[domain.LoanStatus]int64)
	for _, row := range rows {
		byStatus[row.Status] = row.Count
	}
	if byStatus[domain.StatusPending] != 2 || byStatus[domain.StatusApproved] != 1 {
		t.Fatalf("unexpected grouping: %+v", byStatus)
	}
}
