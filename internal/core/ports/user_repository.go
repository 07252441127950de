package ports

import (
	"context"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// UserUpdate is a partial update: nil fields are left untouched.
type UserUpdate struct {
	Name  *string
	Email *string
	Phone *string
	Role  *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts the user and returns it with its id filled in.
	// A duplicate email yields domain.ErrEmailExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// List returns all users ordered by id ascending.
	List(ctx context.Context) ([]domain.User, error)
	// ListSellers returns users with the seller role, ordered by id.
	ListSellers(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, upd UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role string) (int64, error)
}
