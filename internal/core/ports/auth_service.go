package ports

import (
	"context"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

// RegisterInput carries all data needed to create a new user account.
// CallerToken is the raw bearer token of the requester, if any; it is only
// consulted when RequestedRole is admin.
type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	RequestedRole string
	CallerToken   string
}

// AuthService implements registration, login and user administration.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	DeleteUser(ctx context.Context, callerID, targetID string) error
	UpdateUserRole(ctx context.Context, callerID, targetID string, role domain.Role) (*domain.User, error)
}
