package ports

import (
	"context"
	"time"

	"github.com/crm-properties/crm-api/internal/core/domain"
)

// SellerRow is one seller on the manager's listing, with deal counts
// split by the shared IsClosed predicate.
type SellerRow struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ActiveDeals int    `json:"activeDeals"`
	ClosedDeals int    `json:"closedDeals"`
}

// SellerMetrics aggregates one seller's deals over an optional closeDate
// range. Value sums treat an absent expectedValue as 0.
type SellerMetrics struct {
	TotalDeals         int     `json:"totalDeals"`
	ClosedDeals        int     `json:"closedDeals"`
	WonDeals           int     `json:"wonDeals"`
	LostDeals          int     `json:"lostDeals"`
	TotalExpectedValue float64 `json:"totalExpectedValue"`
	WonValue           float64 `json:"wonValue"`
}

// ManagerService implements the manager/admin reporting operations.
type ManagerService interface {
	ListSellersWithCounts(ctx context.Context) ([]SellerRow, error)
	FilterDeals(ctx context.Context, f DealFilter) ([]DealDetail, error)
	// SellerMetrics returns (nil, nil) when no deals match: callers must be
	// able to tell "no rows matched" apart from all-zero metrics.
	SellerMetrics(ctx context.Context, sellerID int64, from, to *time.Time) (*SellerMetrics, error)
	// ExportSellerReportCSV yields domain.ErrNoData when there is nothing
	// to export.
	ExportSellerReportCSV(ctx context.Context, sellerID int64, from, to *time.Time) (*CSVExport, error)
	// ListSellerClients lists clients transitively owned by the seller.
	ListSellerClients(ctx context.Context, sellerID int64) ([]domain.Client, error)
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	UpdateClient(ctx context.Context, id int64, upd ClientUpdate) (*domain.Client, error)
}
