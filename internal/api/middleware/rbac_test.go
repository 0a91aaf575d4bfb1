package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

func runRBAC(t *testing.T, role string, allowed ...domain.Role) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RBAC(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	return handler(c)
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	if err := runRBAC(t, "admin", domain.RoleAdmin, domain.RoleVerifier); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if err := runRBAC(t, "verifier", domain.RoleAdmin, domain.RoleVerifier); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestRBAC_ForbidsUnlistedRole(t *testing.T) {
	err := runRBAC(t, "verifier", domain.RoleAdmin)
	assertHTTPStatus(t, err, http.StatusForbidden)
}

func TestRBAC_ForbidsMissingRole(t *testing.T) {
	err := runRBAC(t, "", domain.RoleAdmin, domain.RoleVerifier)
	assertHTTPStatus(t, err, http.StatusForbidden)
}
