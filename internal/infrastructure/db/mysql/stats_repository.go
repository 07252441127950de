package mysql

import (
	"context"
	"database/sql"

	"github.com/crm-properties/crm-api/internal/core/ports"
)

type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// EntityCounts gathers the dashboard counts in a single round trip.
// Open deals are the rows without a close date.
func (r *StatsRepository) EntityCounts(ctx context.Context) (*ports.EntityCounts, error) {
	var c ports.EntityCounts
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM properties),
			(SELECT COUNT(*) FROM deals),
			(SELECT COUNT(*) FROM activities),
			(SELECT COUNT(*) FROM deals WHERE close_date IS NULL)`).
		Scan(&c.Users, &c.Clients, &c.Properties, &c.Deals, &c.Activities, &c.OpenDeals)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
