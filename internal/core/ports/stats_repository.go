package ports

import "context"

// EntityCounts holds the raw table counts behind the admin dashboard.
// OpenDeals counts rows with a null close date; this is deliberately a
// narrower signal than the shared IsClosed predicate (see DESIGN.md).
type EntityCounts struct {
	Users      int64
	Clients    int64
	Properties int64
	Deals      int64
	Activities int64
	OpenDeals  int64
}

// StatsRepository produces the global entity counts in one round trip set.
type StatsRepository interface {
	EntityCounts(ctx context.Context) (*EntityCounts, error)
}
