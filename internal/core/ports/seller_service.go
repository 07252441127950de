package ports

import (
	"context"
	"time"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// ClientInput carries a new client's fields.
type ClientInput struct {
	Name  string
	Email *string
	Phone *string
	City  *string
}

// CreateDealInput carries a new deal. Stage defaults to "new" when empty;
// the owner always comes from the session, never from the request.
type CreateDealInput struct {
	Title         string
	ClientID      int64
	PropertyID    int64
	ExpectedValue *float64
	Stage         domain.DealStage
}

// ActivityInput carries a new activity on a deal.
type ActivityInput struct {
	Subject     string
	Type        *string
	Description *string
	DueDate     *time.Time
}

// SellerService implements the seller/admin operations. Ownership checks
// apply to sellers only; an admin passes them for any deal or client.
type SellerService interface {
	ListMyClients(ctx context.Context, s domain.Session) ([]domain.Client, error)
	ListDeals(ctx context.Context, s domain.Session) ([]DealWithRefs, error)
	ListClients(ctx context.Context) ([]ClientRef, error)
	ListProperties(ctx context.Context) ([]PropertyRef, error)
	CreateClient(ctx context.Context, in ClientInput) (*domain.Client, error)
	UpdateClient(ctx context.Context, s domain.Session, clientID int64, upd ClientUpdate) (*domain.Client, error)
	CreateDeal(ctx context.Context, s domain.Session, in CreateDealInput) (*DealWithRefs, error)
	// UpdateDealStage enforces the forward-only pipeline and sets or clears
	// closeDate depending on whether the new stage is terminal.
	UpdateDealStage(ctx context.Context, s domain.Session, dealID int64, next domain.DealStage) (*domain.Deal, error)
	AddActivity(ctx context.Context, s domain.Session, dealID int64, in ActivityInput) (*domain.Activity, error)
	ListActivities(ctx context.Context, s domain.Session, dealID int64) ([]domain.Activity, error)
}
