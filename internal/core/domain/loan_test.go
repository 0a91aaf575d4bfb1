package domain

import "testing"

func TestLoanStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to LoanStatus
		want     bool
	}{
		{StatusPending, StatusVerified, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusApproved, false},
		{StatusVerified, StatusApproved, true},
		{StatusVerified, StatusRejected, true},
		{StatusVerified, StatusPending, false},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
		{StatusRejected, StatusVerified, false},
		{StatusRejected, StatusApproved, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestLoanStatus_IsValid(t *testing.T) {
	for _, s := range []LoanStatus{StatusPending, StatusVerified, StatusApproved, StatusRejected} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if LoanStatus("cancelled").IsValid() {
		t.Errorf("unknown status should be invalid")
	}
}

func TestRole_IsValid(t *testing.T) {
	if !RoleAdmin.IsValid() || !RoleVerifier.IsValid() {
		t.Fatalf("known roles should be valid")
	}
	if Role("applicant").IsValid() {
		t.Fatalf("unknown role should be invalid")
	}
}
