package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/crm-properties/crm-api/internal/api/metrics"
	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

// MetricsCache abstracts the short-TTL store for global metrics (Redis).
// Cache failures must never fail the request; callers degrade to the
// database and log.
type MetricsCache interface {
	Get(ctx context.Context) (*ports.GlobalMetrics, bool, error)
	Set(ctx context.Context, m *ports.GlobalMetrics) error
}

// AdminService implements user administration and global metrics.
type AdminService struct {
	users      ports.UserRepository
	deals      ports.DealRepository
	activities ports.ActivityRepository
	stats      ports.StatsRepository
	cache      MetricsCache
	log        zerolog.Logger
}

func NewAdminService(
	users ports.UserRepository,
	deals ports.DealRepository,
	activities ports.ActivityRepository,
	stats ports.StatsRepository,
	cache MetricsCache,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:      users,
		deals:      deals,
		activities: activities,
		stats:      stats,
		cache:      cache,
		log:        log,
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]ports.UserRow, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]ports.UserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, ports.UserRow{User: u, Active: true})
	}
	return rows, nil
}

// UpdateUser applies a partial update. Demoting an admin is refused while
// they are the only one left.
func (s *AdminService) UpdateUser(ctx context.Context, id int64, upd ports.UserUpdate) (*domain.User, error) {
	if upd.Role != nil {
		target, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if effectiveRole(target.Role) == domain.RoleAdmin && *upd.Role != domain.RoleAdmin {
			if err := s.guardLastAdmin(ctx); err != nil {
				return nil, err
			}
		}
	}

	user, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

// DeleteUser removes a user and everything hanging off them. The cascade
// order matters for foreign keys: activities of the user's deals first,
// then the deals, then the user row itself.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if effectiveRole(target.Role) == domain.RoleAdmin {
		if err := s.guardLastAdmin(ctx); err != nil {
			return err
		}
	}

	dealIDs, err := s.deals.ListIDsBySeller(ctx, id)
	if err != nil {
		return err
	}
	if err := s.activities.DeleteByDealIDs(ctx, dealIDs); err != nil {
		return err
	}
	if err := s.deals.DeleteBySeller(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.log.Info().Int64("user_id", id).Int("deals_removed", len(dealIDs)).Msg("user deleted")
	return nil
}

// GlobalMetrics reads through the cache. The open/closed split here is
// derived from closeDate alone, not the shared IsClosed predicate; that
// is the original reporting behavior and is kept (see DESIGN.md).
func (s *AdminService) GlobalMetrics(ctx context.Context) (*ports.GlobalMetrics, error) {
	if s.cache != nil {
		if m, ok, err := s.cache.Get(ctx); err != nil {
			s.log.Warn().Err(err).Msg("metrics cache read failed")
		} else if ok {
			return m, nil
		}
	}

	counts, err := s.stats.EntityCounts(ctx)
	if err != nil {
		return nil, err
	}

	m := &ports.GlobalMetrics{
		Users:       counts.Users,
		Clients:     counts.Clients,
		Properties:  counts.Properties,
		Deals:       counts.Deals,
		OpenDeals:   counts.OpenDeals,
		ClosedDeals: counts.Deals - counts.OpenDeals,
		Activities:  counts.Activities,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, m); err != nil {
			s.log.Warn().Err(err).Msg("metrics cache write failed")
		}
	}
	return m, nil
}

func (s *AdminService) ExportGlobalMetricsCSV(ctx context.Context) (*ports.CSVExport, error) {
	m, err := s.GlobalMetrics(ctx)
	if err != nil {
		return nil, err
	}

	content := renderMetricsCSV([]metricRow{
		{"users", formatCount(m.Users)},
		{"clients", formatCount(m.Clients)},
		{"properties", formatCount(m.Properties)},
		{"deals", formatCount(m.Deals)},
		{"openDeals", formatCount(m.OpenDeals)},
		{"closedDeals", formatCount(m.ClosedDeals)},
		{"activities", formatCount(m.Activities)},
	})

	metrics.CSVExportsTotal.WithLabelValues("global_metrics").Inc()
	return &ports.CSVExport{
		Filename:    "global-metrics.csv",
		ContentType: "text/csv",
		Content:     content,
	}, nil
}

func (s *AdminService) guardLastAdmin(ctx context.Context) error {
	n, err := s.users.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return err
	}
	if n <= 1 {
		return domain.ErrLastAdmin
	}
	return nil
}

// effectiveRole treats rows with an unknown role as sellers.
func effectiveRole(role string) string {
	if !domain.ValidRole(role) {
		return domain.RoleSeller
	}
	return role
}
