package ports

import (
	"context"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// PropertyRepository defines read operations for the property catalogue.
// Properties are reference data: nothing in this service creates them.
type PropertyRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Property, error)
	// List returns all properties ordered by title ascending.
	List(ctx context.Context) ([]domain.Property, error)
}
