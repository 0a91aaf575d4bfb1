package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both values must be
// present, proving the middleware ran for this route.
func ctxClaims(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get("user_id").(string)
	roleStr, _ := c.Get("role").(string)
	if userID == "" || roleStr == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, domain.Role(roleStr), nil
}

// bearerToken returns the raw bearer token from the Authorization header, or
// empty when absent/malformed. Used by registration, where a token is
// optional and only consulted for admin elevation.
func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
