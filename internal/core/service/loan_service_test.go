package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/loandesk/loan-manager/internal/core/domain"
	"github.com/loandesk/loan-manager/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubLoanRepo struct {
	loans     map[string]*domain.LoanApplication
	owners    map[string]*ports.LoanOwner // keyed by user id
	nextID    int
	createErr error
}

func newStubLoanRepo() *stubLoanRepo {
	return &stubLoanRepo{
		loans:  make(map[string]*domain.LoanApplication),
		owners: make(map[string]*ports.LoanOwner),
	}
}

func (r *stubLoanRepo) Create(_ context.Context, loan *domain.LoanApplication) (*domain.LoanApplication, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	clone := *loan
	clone.ID = fmt.Sprintf("loan-%d", r.nextID)
	r.loans[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubLoanRepo) FindByID(_ context.Context, id string) (*domain.LoanApplication, error) {
	l, ok := r.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLoanRepo) FindByOwner(_ context.Context, userID string) ([]*domain.LoanApplication, error) {
	var out []*domain.LoanApplication
	for _, l := range r.loans {
		if l.CreatedBy == userID {
			clone := *l
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubLoanRepo) FindAllWithOwner(_ context.Context) ([]*ports.LoanWithOwner, error) {
	var out []*ports.LoanWithOwner
	for _, l := range r.loans {
		out = append(out, &ports.LoanWithOwner{LoanApplication: *l, Owner: r.owners[l.CreatedBy]})
	}
	return out, nil
}

func (r *stubLoanRepo) UpdateStatus(_ context.Context, id string, status domain.LoanStatus) (*domain.LoanApplication, error) {
	l, ok := r.loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	l.Status = status
	l.UpdatedAt = time.Now().UTC()
	clone := *l
	return &clone, nil
}

func (r *stubLoanRepo) CountByStatus(_ context.Context, status domain.LoanStatus) (int64, error) {
	var n int64
	for _, l := range r.loans {
		if status == "" || l.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubLoanRepo) AmountTotals(_ context.Context) (*ports.AmountTotals, error) {
	totals := &ports.AmountTotals{}
	for _, l := range r.loans {
		totals.TotalAmount += l.Amount
		if l.Status == domain.StatusApproved {
			totals.ApprovedAmount += l.Amount
		}
	}
	return totals, nil
}

func (r *stubLoanRepo) Recent(_ context.Context, limit int) ([]*ports.LoanWithOwner, error) {
	all, _ := r.FindAllWithOwner(context.Background())
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *stubLoanRepo) CountByMonth(_ context.Context) ([]*ports.MonthlyLoanStats, error) {
	byMonth := make(map[[2]int]*ports.MonthlyLoanStats)
	for _, l := range r.loans {
		key := [2]int{l.CreatedAt.Year(), int(l.CreatedAt.Month())}
		row, ok := byMonth[key]
		if !ok {
			row = &ports.MonthlyLoanStats{Year: key[0], Month: key[1]}
			byMonth[key] = row
		}
		row.Count++
		row.Amount += l.Amount
	}
	out := make([]*ports.MonthlyLoanStats, 0, len(byMonth))
	for _, row := range byMonth {
		out = append(out, row)
	}
	return out, nil
}

func (r *stubLoanRepo) GroupByStatus(_ context.Context) ([]*ports.StatusLoanStats, error) {
	byStatus := make(map[domain.LoanStatus]*ports.StatusLoanStats)
	for _, l := range r.loans {
		row, ok := byStatus[l.Status]
		if !ok {
			row = &ports.StatusLoanStats{Status: l.Status}
			byStatus[l.Status] = row
		}
		row.Count++
		row.Amount += l.Amount
	}
	out := make([]*ports.StatusLoanStats, 0, len(byStatus))
	for _, row := range byStatus {
		out = append(out, row)
	}
	return out, nil
}

func newLoanService(repo ports.LoanRepository) *LoanService {
	return NewLoanService(repo, zerolog.Nop())
}

func seedLoan(t *testing.T, repo *stubLoanRepo, owner string, status domain.LoanStatus) *domain.LoanApplication {
	t.Helper()
	loan, err := repo.Create(context.Background(), &domain.LoanApplication{
		FullName:  "Test Applicant",
		Amount:    25000,
		Purpose:   "working capital",
		Status:    status,
		CreatedBy: owner,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return loan
}

// ---------------------------------------------------------------------------
// Create / list
// ---------------------------------------------------------------------------

func TestLoanService_Create(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)

	loan, err := svc.Create(context.Background(), ports.CreateLoanInput{
		FullName: "John Okoh", Amount: 50000, Purpose: "business expansion", CreatedBy: "user-1",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if loan.Status != domain.StatusPending {
		t.Fatalf("new loans must start pending, got %s", loan.Status)
	}
	if loan.CreatedBy != "user-1" {
		t.Fatalf("unexpected owner: %s", loan.CreatedBy)
	}
	if loan.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
}

func TestLoanService_Create_DuplicatesAllowed(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)

	in := ports.CreateLoanInput{FullName: "John Okoh", Amount: 50000, Purpose: "again", CreatedBy: "user-1"}
	first, _ := svc.Create(context.Background(), in)
	second, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("identical submissions must create distinct records")
	}
}

func TestLoanService_Create_RepoError(t *testing.T) {
	repo := newStubLoanRepo()
	repo.createErr = errors.New("connection reset")
	svc := newLoanService(repo)

	if _, err := svc.Create(context.Background(), ports.CreateLoanInput{CreatedBy: "user-1"}); err == nil {
		t.Fatalf("expected error from repository")
	}
}

func TestLoanService_ListOwn_ScopedToCaller(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)

	seedLoan(t, repo, "user-1", domain.StatusPending)
	seedLoan(t, repo, "user-1", domain.StatusApproved)
	seedLoan(t, repo, "user-2", domain.StatusPending)

	loans, err := svc.ListOwn(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListOwn returned error: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("expected 2 loans, got %d", len(loans))
	}
	for _, l := range loans {
		if l.CreatedBy != "user-1" {
			t.Fatalf("leaked loan owned by %s", l.CreatedBy)
		}
	}
}

// ---------------------------------------------------------------------------
// Status workflow
// ---------------------------------------------------------------------------

func TestLoanService_UpdateStatus_VerifierCannotApprove(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)

	// The rejection fires before the lookup: even a nonexistent loan id
	// yields forbidden, not not-found.
	for _, status := range []domain.LoanStatus{domain.StatusPending, domain.StatusVerified, domain.StatusRejected} {
		loan := seedLoan(t, repo, "user-1", status)
		_, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
			LoanID: loan.ID, NewStatus: domain.StatusApproved,
			CallerID: "v-1", CallerRole: domain.RoleVerifier,
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("from %s: expected ErrForbidden, got %v", status, err)
		}
	}

	_, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: "missing", NewStatus: domain.StatusApproved,
		CallerID: "v-1", CallerRole: domain.RoleVerifier,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden before lookup, got %v", err)
	}
}

func TestLoanService_UpdateStatus_NotFound(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)

	_, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: "missing", NewStatus: domain.StatusVerified,
		CallerID: "v-1", CallerRole: domain.RoleVerifier,
	})
	if !errors.Is(err, domain.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestLoanService_UpdateStatus_VerifierVerifiesPending(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)
	loan := seedLoan(t, repo, "user-1", domain.StatusPending)

	updated, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: loan.ID, NewStatus: domain.StatusVerified,
		CallerID: "v-1", CallerRole: domain.RoleVerifier,
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if updated.Status != domain.StatusVerified {
		t.Fatalf("expected verified, got %s", updated.Status)
	}
}

func TestLoanService_UpdateStatus_VerifierRejectsPending(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)
	loan := seedLoan(t, repo, "user-1", domain.StatusPending)

	updated, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: loan.ID, NewStatus: domain.StatusRejected,
		CallerID: "v-1", CallerRole: domain.RoleVerifier,
	})
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if updated.Status != domain.StatusRejected {
		t.Fatalf("expected rejected, got %s", updated.Status)
	}
}

func TestLoanService_UpdateStatus_VerifierRestrictedToPending(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)

	for _, status := range []domain.LoanStatus{domain.StatusVerified, domain.StatusApproved, domain.StatusRejected} {
		loan := seedLoan(t, repo, "user-1", status)
		_, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
			LoanID: loan.ID, NewStatus: domain.StatusRejected,
			CallerID: "v-1", CallerRole: domain.RoleVerifier,
		})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("from %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

func TestLoanService_UpdateStatus_AdminApprovesVerified(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)
	loan := seedLoan(t, repo, "user-1", domain.StatusVerified)

	updated, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: loan.ID, NewStatus: domain.StatusApproved,
		CallerID: "a-1", CallerRole: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if updated.Status != domain.StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}
}

func TestLoanService_UpdateStatus_AdminApproveRequiresVerified(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)

	for _, status := range []domain.LoanStatus{domain.StatusPending, domain.StatusRejected} {
		loan := seedLoan(t, repo, "user-1", status)
		_, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
			LoanID: loan.ID, NewStatus: domain.StatusApproved,
			CallerID: "a-1", CallerRole: domain.RoleAdmin,
		})
		if !errors.Is(err, domain.ErrInvalidTransition) {
			t.Fatalf("from %s: expected ErrInvalidTransition, got %v", status, err)
		}
	}
}

// Admins are not restricted by the loan's current state for non-approve
// targets.
func TestLoanService_UpdateStatus_AdminBypassesPendingCheck(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)
	loan := seedLoan(t, repo, "user-1", domain.StatusRejected)

	updated, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: loan.ID, NewStatus: domain.StatusVerified,
		CallerID: "a-1", CallerRole: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("admin override failed: %v", err)
	}
	if updated.Status != domain.StatusVerified {
		t.Fatalf("expected verified, got %s", updated.Status)
	}
}

func TestLoanService_UpdateStatus_UnknownStatusRejected(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)
	loan := seedLoan(t, repo, "user-1", domain.StatusPending)

	_, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: loan.ID, NewStatus: domain.LoanStatus("cancelled"),
		CallerID: "a-1", CallerRole: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestLoanService_UpdateStatus_OwnerUnchanged(t *testing.T) {
	repo := newStubLoanRepo()
	svc := newLoanService(repo)
	loan := seedLoan(t, repo, "user-1", domain.StatusPending)

	updated, err := svc.UpdateStatus(context.Background(), ports.UpdateStatusInput{
		LoanID: loan.ID, NewStatus: domain.StatusVerified,
		CallerID: "v-9", CallerRole: domain.RoleVerifier,
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if updated.CreatedBy != "user-1" {
		t.Fatalf("created_by must never change, got %s", updated.CreatedBy)
	}
}
