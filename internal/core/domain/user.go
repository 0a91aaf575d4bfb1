package domain

import (
	"errors"
	"time"
)

// Role is the access tier of an authenticated actor.
// The system only knows verifiers and admins; applicants submit loans
// under a verifier account.
type Role string

const (
	RoleVerifier Role = "verifier"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	return r == RoleVerifier || r == RoleAdmin
}

var ErrUserNotFound = errors.New("user not found")
var ErrEmailExists = errors.New("email already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")
var ErrSelfAction = errors.New("cannot perform this action on your own account")

// User models an authenticated actor in the system.
// PasswordHash never leaves the backend.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
