package ports

import (
	"context"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// ClientUpdate is a partial update: nil fields are left untouched.
type ClientUpdate struct {
	Name  *string
	Email *string
	Phone *string
	City  *string
}

// ClientRepository defines persistence operations for clients.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id int64) (*domain.Client, error)
	// List returns all clients ordered by name ascending (combo boxes).
	List(ctx context.Context) ([]domain.Client, error)
	// ListBySeller returns clients that have at least one deal with the
	// given seller, newest first. This is the transitive-ownership view;
	// ownership is never stored on the client row.
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Client, error)
	Update(ctx context.Context, id int64, upd ClientUpdate) (*domain.Client, error)
}
