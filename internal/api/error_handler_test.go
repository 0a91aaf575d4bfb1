package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "invalid credentials",
			err:      domain.ErrInvalidCredentials,
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"invalid credentials"}`,
		},
		{
			name:     "email exists",
			err:      domain.ErrEmailExists,
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"email already exists"}`,
		},
		{
			name:     "invalid role",
			err:      domain.ErrInvalidRole,
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"invalid role"}`,
		},
		{
			name:     "invalid status",
			err:      domain.ErrInvalidStatus,
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"invalid loan status"}`,
		},
		{
			name:     "invalid transition keeps context",
			err:      fmt.Errorf("only verified loans can be approved: %w", domain.ErrInvalidTransition),
			wantCode: http.StatusBadRequest,
			wantBody: `{"message":"only verified loans can be approved: invalid status transition"}`,
		},
		{
			name:     "self action",
			err:      fmt.Errorf("cannot delete own account: %w", domain.ErrSelfAction),
			wantCode: http.StatusForbidden,
			wantBody: `{"message":"cannot delete own account: cannot perform this action on your own account"}`,
		},
		{
			name:     "forbidden",
			err:      fmt.Errorf("verifiers cannot approve loans: %w", domain.ErrForbidden),
			wantCode: http.StatusForbidden,
			wantBody: `{"message":"verifiers cannot approve loans: access forbidden"}`,
		},
		{
			name:     "user not found",
			err:      domain.ErrUserNotFound,
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"user not found"}`,
		},
		{
			name:     "loan not found",
			err:      domain.ErrLoanNotFound,
			wantCode: http.StatusNotFound,
			wantBody: `{"message":"loan application not found"}`,
		},
		{
			name:     "unexpected error is masked",
			err:      errors.New("mongo: connection reset"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"message":"internal server error"}`,
		},
		{
			name:     "echo http error passthrough",
			err:      echo.NewHTTPError(http.StatusUnauthorized, "missing or malformed token"),
			wantCode: http.StatusUnauthorized,
			wantBody: `{"message":"missing or malformed token"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := renderError(t, tt.err)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := trimBody(rec); got != tt.wantBody {
				t.Fatalf("expected body %s, got %s", tt.wantBody, got)
			}
		})
	}
}

// Wrong password and unknown email must be indistinguishable to the client:
// same status code, byte-identical body.
func TestErrorHandler_LoginFailuresIndistinguishable(t *testing.T) {
	wrongPassword := renderError(t, fmt.Errorf("password mismatch: %w", domain.ErrInvalidCredentials))
	unknownEmail := renderError(t, fmt.Errorf("no such user: %w", domain.ErrInvalidCredentials))

	if wrongPassword.Code != unknownEmail.Code {
		t.Fatalf("status codes differ: %d vs %d", wrongPassword.Code, unknownEmail.Code)
	}
	if trimBody(wrongPassword) != trimBody(unknownEmail) {
		t.Fatalf("bodies differ: %s vs %s", trimBody(wrongPassword), trimBody(unknownEmail))
	}
}

func TestErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Response().WriteHeader(http.StatusOK)
	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late failure"), c)

	if rec.Code != http.StatusOK {
		t.Fatalf("committed response was overwritten: %d", rec.Code)
	}
}

func trimBody(rec *httptest.ResponseRecorder) string {
	b := rec.Body.String()
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
