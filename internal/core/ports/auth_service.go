package ports

import (
	"context"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// RegisterInput carries a public registration request. The role is not an
// input: public registration always produces a seller.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService implements registration, login and session introspection.
// The returned token strings are ready to be set as the session cookie.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Me resolves the user behind a verified session subject. A vanished
	// user yields domain.ErrUnauthorized, not ErrUserNotFound: the session
	// references nobody, so the caller is effectively unauthenticated.
	Me(ctx context.Context, userID int64) (*domain.User, error)
}
