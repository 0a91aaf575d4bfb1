package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

// TokenClaims is the decoded payload of a session token.
type TokenClaims struct {
	UserID string
	Role   domain.Role
}

var ErrInvalidToken = errors.New("invalid token")

// ParseToken verifies signature (HS256 only) and expiry, then extracts the
// session claims. Used by both the auth middleware and the registration
// admin-elevation check.
func ParseToken(token, secret string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{UserID: userID, Role: domain.Role(role)}, nil
}
