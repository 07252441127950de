package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/crm-properties/crm-api/internal/api/metrics"
	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

// SellerService implements the seller/admin operations: clients, deals,
// stage transitions and activities.
type SellerService struct {
	clients    ports.ClientRepository
	properties ports.PropertyRepository
	deals      ports.DealRepository
	activities ports.ActivityRepository
	log        zerolog.Logger
}

func NewSellerService(
	clients ports.ClientRepository,
	properties ports.PropertyRepository,
	deals ports.DealRepository,
	activities ports.ActivityRepository,
	log zerolog.Logger,
) *SellerService {
	return &SellerService{
		clients:    clients,
		properties: properties,
		deals:      deals,
		activities: activities,
		log:        log,
	}
}

// ListMyClients returns the clients the caller has at least one deal
// with. The link is created implicitly by the first deal, never stored.
func (s *SellerService) ListMyClients(ctx context.Context, sess domain.Session) ([]domain.Client, error) {
	return s.clients.ListBySeller(ctx, sess.UserID)
}

// ListDeals returns the caller's deals; an admin sees everyone's.
func (s *SellerService) ListDeals(ctx context.Context, sess domain.Session) ([]ports.DealWithRefs, error) {
	sellerID := sess.UserID
	if sess.IsAdmin() {
		sellerID = 0
	}
	return s.deals.ListBySeller(ctx, sellerID)
}

func (s *SellerService) ListClients(ctx context.Context) ([]ports.ClientRef, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]ports.ClientRef, 0, len(clients))
	for _, c := range clients {
		refs = append(refs, ports.ClientRef{ID: c.ID, Name: c.Name})
	}
	return refs, nil
}

func (s *SellerService) ListProperties(ctx context.Context) ([]ports.PropertyRef, error) {
	properties, err := s.properties.List(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]ports.PropertyRef, 0, len(properties))
	for _, p := range properties {
		refs = append(refs, ports.PropertyRef{ID: p.ID, Title: p.Title})
	}
	return refs, nil
}

func (s *SellerService) CreateClient(ctx context.Context, in ports.ClientInput) (*domain.Client, error) {
	client, err := s.clients.Create(ctx, &domain.Client{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
		City:  in.City,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("client_id", client.ID).Msg("client created")
	return client, nil
}

// UpdateClient lets a seller edit only clients they already have a deal
// with; an admin can edit any client.
func (s *SellerService) UpdateClient(ctx context.Context, sess domain.Session, clientID int64, upd ports.ClientUpdate) (*domain.Client, error) {
	if !sess.IsAdmin() {
		owns, err := s.deals.SellerHasDealWith(ctx, sess.UserID, clientID)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, domain.ErrForbidden
		}
	}
	return s.clients.Update(ctx, clientID, upd)
}

// CreateDeal checks both references before inserting; the owning seller
// is always the session subject.
func (s *SellerService) CreateDeal(ctx context.Context, sess domain.Session, in ports.CreateDealInput) (*ports.DealWithRefs, error) {
	client, err := s.clients.FindByID(ctx, in.ClientID)
	if err != nil {
		return nil, err
	}
	property, err := s.properties.FindByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}

	stage := in.Stage
	if stage == "" {
		stage = domain.StageNew
	}

	deal, err := s.deals.Create(ctx, &domain.Deal{
		Title:         in.Title,
		ExpectedValue: in.ExpectedValue,
		Stage:         stage,
		CloseDate:     nil,
		UserID:        sess.UserID,
		ClientID:      in.ClientID,
		PropertyID:    in.PropertyID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("deal_id", deal.ID).Int64("user_id", sess.UserID).Msg("deal created")
	return &ports.DealWithRefs{
		Deal:     *deal,
		Client:   ports.ClientRef{ID: client.ID, Name: client.Name},
		Property: ports.PropertyRef{ID: property.ID, Title: property.Title},
	}, nil
}

// UpdateDealStage enforces the forward-only pipeline. The write is
// conditional on the stage the caller saw, so two concurrent transitions
// cannot both slip past the monotonicity check on stale reads.
func (s *SellerService) UpdateDealStage(ctx context.Context, sess domain.Session, dealID int64, next domain.DealStage) (*domain.Deal, error) {
	deal, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !sess.IsAdmin() && deal.UserID != sess.UserID {
		return nil, domain.ErrForbidden
	}

	current := deal.Stage
	if !domain.ValidStage(current) {
		current = domain.StageNew
	}
	if !current.CanAdvanceTo(next) {
		return nil, domain.ErrInvalidTransition
	}

	// Re-derived on every accepted transition, not just the closing one.
	var closeDate *time.Time
	if next.Terminal() {
		now := time.Now().UTC()
		closeDate = &now
	}

	if err := s.deals.UpdateStage(ctx, deal.ID, deal.Stage, next, closeDate); err != nil {
		return nil, err
	}

	metrics.DealStageTransitionsTotal.WithLabelValues(string(next)).Inc()
	s.log.Info().
		Int64("deal_id", deal.ID).
		Str("from", string(current)).
		Str("to", string(next)).
		Msg("deal stage updated")

	deal.Stage = next
	deal.CloseDate = closeDate
	return deal, nil
}

func (s *SellerService) AddActivity(ctx context.Context, sess domain.Session, dealID int64, in ports.ActivityInput) (*domain.Activity, error) {
	if err := s.checkDealAccess(ctx, sess, dealID); err != nil {
		return nil, err
	}

	activity, err := s.activities.Create(ctx, &domain.Activity{
		Subject:     in.Subject,
		Type:        in.Type,
		Description: in.Description,
		DueDate:     in.DueDate,
		DealID:      dealID,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("deal_id", dealID).Int64("activity_id", activity.ID).Msg("activity added")
	return activity, nil
}

func (s *SellerService) ListActivities(ctx context.Context, sess domain.Session, dealID int64) ([]domain.Activity, error) {
	if err := s.checkDealAccess(ctx, sess, dealID); err != nil {
		return nil, err
	}
	return s.activities.ListByDeal(ctx, dealID)
}

// checkDealAccess verifies the deal exists and the caller may touch it.
func (s *SellerService) checkDealAccess(ctx context.Context, sess domain.Session, dealID int64) error {
	deal, err := s.deals.FindByID(ctx, dealID)
	if err != nil {
		return err
	}
	if !sess.IsAdmin() && deal.UserID != sess.UserID {
		return domain.ErrForbidden
	}
	return nil
}
