package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/loandesk/loan-manager/internal/api/metrics"
	"github.com/loandesk/loan-manager/internal/core/domain"
	"github.com/loandesk/loan-manager/internal/core/ports"
)

// LoanService implements loan submission, listing and the status workflow.
type LoanService struct {
	repo ports.LoanRepository
	log  zerolog.Logger
}

func NewLoanService(repo ports.LoanRepository, log zerolog.Logger) *LoanService {
	return &LoanService{repo: repo, log: log}
}

// Create persists a new loan application in the pending state, owned by the
// caller. Repeated identical submissions create distinct applications.
func (s *LoanService) Create(ctx context.Context, in ports.CreateLoanInput) (*domain.LoanApplication, error) {
	now := time.Now().UTC()
	loan := &domain.LoanApplication{
		FullName:  in.FullName,
		Amount:    in.Amount,
		Purpose:   in.Purpose,
		Status:    domain.StatusPending,
		CreatedBy: in.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, loan)
	if err != nil {
		s.log.Error().Err(err).Str("created_by", in.CreatedBy).Msg("failed to create loan application")
		return nil, err
	}

	metrics.LoansCreatedTotal.Inc()
	s.log.Info().Str("loan_id", created.ID).Str("created_by", in.CreatedBy).Float64("amount", in.Amount).Msg("loan application submitted")
	return created, nil
}

func (s *LoanService) ListAll(ctx context.Context) ([]*ports.LoanWithOwner, error) {
	return s.repo.FindAllWithOwner(ctx)
}

func (s *LoanService) ListOwn(ctx context.Context, callerID string) ([]*domain.LoanApplication, error) {
	return s.repo.FindByOwner(ctx, callerID)
}

// UpdateStatus applies a status transition under the role rules:
//
//   - verifiers can never set approved;
//   - verifiers may only act on pending loans;
//   - admins may set approved only on verified loans.
//
// Admins setting verified or rejected are not restricted by the loan's
// current state. The verifier/approved rejection fires before the loan
// lookup, so a verifier gets a 403 even for an unknown loan id.
func (s *LoanService) UpdateStatus(ctx context.Context, in ports.UpdateStatusInput) (*domain.LoanApplication, error) {
	if !in.NewStatus.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	if in.CallerRole == domain.RoleVerifier && in.NewStatus == domain.StatusApproved {
		return nil, fmt.Errorf("verifiers cannot approve loans: %w", domain.ErrForbidden)
	}

	loan, err := s.repo.FindByID(ctx, in.LoanID)
	if err != nil {
		return nil, err
	}

	if in.CallerRole == domain.RoleVerifier && loan.Status != domain.StatusPending {
		return nil, fmt.Errorf("only pending loans can be verified: %w", domain.ErrInvalidTransition)
	}
	if in.CallerRole == domain.RoleAdmin && in.NewStatus == domain.StatusApproved && loan.Status != domain.StatusVerified {
		return nil, fmt.Errorf("only verified loans can be approved: %w", domain.ErrInvalidTransition)
	}

	updated, err := s.repo.UpdateStatus(ctx, in.LoanID, in.NewStatus)
	if err != nil {
		s.log.Error().Err(err).Str("loan_id", in.LoanID).Msg("failed to update loan status")
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(loan.Status), string(in.NewStatus), string(in.CallerRole)).Inc()
	s.log.Info().
		Str("loan_id", in.LoanID).
		Str("from", string(loan.Status)).
		Str("to", string(in.NewStatus)).
		Str("caller_id", in.CallerID).
		Str("caller_role", string(in.CallerRole)).
		Msg("loan status updated")

	return updated, nil
}
