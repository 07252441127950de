package ports

import (
	"context"
	"time"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// ClientRef is the lightweight client view joined onto deal listings.
type ClientRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// PropertyRef is the lightweight property view joined onto deal listings.
type PropertyRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// DealWithRefs is a deal with its client and property names resolved,
// as shown on the seller's manage-deals listing.
type DealWithRefs struct {
	domain.Deal
	Client   ClientRef   `json:"client"`
	Property PropertyRef `json:"property"`
}

// DealFilter carries the manager's deal filter. Nil fields mean no
// constraint. Date bounds apply to closeDate; the schema has no createdAt.
type DealFilter struct {
	Stage         *domain.DealStage
	SellerID      *int64
	FromCloseDate *time.Time
	ToCloseDate   *time.Time
}

// UserRef identifies the owning seller on a filtered deal row.
type UserRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FilterClientRef extends ClientRef with the city shown on filter results.
type FilterClientRef struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	City *string `json:"city"`
}

// FilterPropertyRef extends PropertyRef with city and price.
type FilterPropertyRef struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	City  string  `json:"city"`
	Price float64 `json:"price"`
}

// DealDetail is a filtered deal row with seller, client and property joined.
type DealDetail struct {
	domain.Deal
	User     UserRef           `json:"user"`
	Client   FilterClientRef   `json:"client"`
	Property FilterPropertyRef `json:"property"`
}

// DealSummary carries just enough of a deal to classify it open/closed.
type DealSummary struct {
	SellerID  int64
	Stage     domain.DealStage
	CloseDate *time.Time
}

// DealRepository defines persistence operations for deals.
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) (*domain.Deal, error)
	FindByID(ctx context.Context, id int64) (*domain.Deal, error)
	// ListBySeller returns the seller's deals newest first with client and
	// property names joined. A sellerID of 0 returns every deal (admin view).
	ListBySeller(ctx context.Context, sellerID int64) ([]DealWithRefs, error)
	Filter(ctx context.Context, f DealFilter) ([]DealDetail, error)
	// ListForMetrics returns a seller's deals, optionally restricted to a
	// closeDate range (inclusive on both ends).
	ListForMetrics(ctx context.Context, sellerID int64, from, to *time.Time) ([]domain.Deal, error)
	// SummariesForSellers returns one row per deal owned by any seller-role
	// user, for the open/closed counts on the manager's sellers listing.
	SummariesForSellers(ctx context.Context) ([]DealSummary, error)
	// UpdateStage sets stage and closeDate only when the row still holds
	// expected, closing the stale-read race on concurrent transitions.
	// Zero rows affected yields domain.ErrInvalidTransition.
	UpdateStage(ctx context.Context, id int64, expected, next domain.DealStage, closeDate *time.Time) error
	// SellerHasDealWith reports whether the seller has at least one deal
	// with the client (the transitive-ownership predicate).
	SellerHasDealWith(ctx context.Context, sellerID, clientID int64) (bool, error)
	ListIDsBySeller(ctx context.Context, sellerID int64) ([]int64, error)
	DeleteBySeller(ctx context.Context, sellerID int64) error
}
