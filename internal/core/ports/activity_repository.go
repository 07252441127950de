package ports

import (
	"context"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// ActivityRepository defines persistence operations for activities.
// Activities are append-only; the only delete path is the user cascade.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	// ListByDeal returns the deal's activities ordered by due date ascending.
	ListByDeal(ctx context.Context, dealID int64) ([]domain.Activity, error)
	DeleteByDealIDs(ctx context.Context, dealIDs []int64) error
}
