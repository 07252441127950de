package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/crm-properties/crm-api/internal/api/metrics"
	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

// ManagerService implements the manager/admin reporting operations.
type ManagerService struct {
	users   ports.UserRepository
	deals   ports.DealRepository
	clients ports.ClientRepository
	log     zerolog.Logger
}

func NewManagerService(
	users ports.UserRepository,
	deals ports.DealRepository,
	clients ports.ClientRepository,
	log zerolog.Logger,
) *ManagerService {
	return &ManagerService{users: users, deals: deals, clients: clients, log: log}
}

// ListSellersWithCounts returns every seller with their deal counts split
// by the shared IsClosed predicate. The split is computed here in one
// pass rather than in SQL so it cannot drift from the other views.
func (s *ManagerService) ListSellersWithCounts(ctx context.Context) ([]ports.SellerRow, error) {
	sellers, err := s.users.ListSellers(ctx)
	if err != nil {
		return nil, err
	}
	summaries, err := s.deals.SummariesForSellers(ctx)
	if err != nil {
		return nil, err
	}

	total := make(map[int64]int, len(sellers))
	closed := make(map[int64]int, len(sellers))
	for _, d := range summaries {
		total[d.SellerID]++
		if domain.IsClosed(d.Stage, d.CloseDate) {
			closed[d.SellerID]++
		}
	}

	rows := make([]ports.SellerRow, 0, len(sellers))
	for _, u := range sellers {
		rows = append(rows, ports.SellerRow{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			ActiveDeals: total[u.ID] - closed[u.ID],
			ClosedDeals: closed[u.ID],
		})
	}
	return rows, nil
}

func (s *ManagerService) FilterDeals(ctx context.Context, f ports.DealFilter) ([]ports.DealDetail, error) {
	return s.deals.Filter(ctx, f)
}

// SellerMetrics aggregates one seller's deals over an optional closeDate
// range. An empty result set returns (nil, nil): "no rows matched" is a
// different answer than all-zero metrics and callers rely on that.
func (s *ManagerService) SellerMetrics(ctx context.Context, sellerID int64, from, to *time.Time) (*ports.SellerMetrics, error) {
	deals, err := s.deals.ListForMetrics(ctx, sellerID, from, to)
	if err != nil {
		return nil, err
	}
	if len(deals) == 0 {
		return nil, nil
	}

	m := &ports.SellerMetrics{TotalDeals: len(deals)}
	for i := range deals {
		d := &deals[i]
		m.TotalExpectedValue += d.Value()
		if !d.Closed() {
			continue
		}
		m.ClosedDeals++
		switch d.Stage {
		case domain.StageWon:
			m.WonDeals++
			m.WonValue += d.Value()
		case domain.StageLost:
			m.LostDeals++
		}
	}
	return m, nil
}

func (s *ManagerService) ExportSellerReportCSV(ctx context.Context, sellerID int64, from, to *time.Time) (*ports.CSVExport, error) {
	m, err := s.SellerMetrics(ctx, sellerID, from, to)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNoData
	}

	content := renderMetricsCSV([]metricRow{
		{"totalDeals", formatCount(int64(m.TotalDeals))},
		{"closedDeals", formatCount(int64(m.ClosedDeals))},
		{"wonDeals", formatCount(int64(m.WonDeals))},
		{"lostDeals", formatCount(int64(m.LostDeals))},
		{"totalExpectedValue", formatValue(m.TotalExpectedValue)},
		{"wonValue", formatValue(m.WonValue)},
	})

	metrics.CSVExportsTotal.WithLabelValues("seller_report").Inc()
	return &ports.CSVExport{
		Filename:    "seller-report.csv",
		ContentType: "text/csv",
		Content:     content,
	}, nil
}

func (s *ManagerService) ListSellerClients(ctx context.Context, sellerID int64) ([]domain.Client, error) {
	return s.clients.ListBySeller(ctx, sellerID)
}

func (s *ManagerService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return s.clients.FindByID(ctx, id)
}

func (s *ManagerService) UpdateClient(ctx context.Context, id int64, upd ports.ClientUpdate) (*domain.Client, error) {
	client, err := s.clients.Update(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("client_id", id).Msg("client updated by manager")
	return client, nil
}
