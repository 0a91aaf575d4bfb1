package ports

import (
	"context"

	"github.com/loandesk/loan-manager/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// CountByRole returns the number of users with the given role.
	// An empty role counts all users.
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}
