package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

type sellerFixture struct {
	svc        *SellerService
	users      *stubUserRepo
	clients    *stubClientRepo
	properties *stubPropertyRepo
	deals      *stubDealRepo
	activities *stubActivityRepo
}

func newSellerFixture() *sellerFixture {
	users := newStubUserRepo()
	deals := newStubDealRepo(users)
	clients := newStubClientRepo(deals)
	properties := newStubPropertyRepo()
	activities := newStubActivityRepo()
	return &sellerFixture{
		svc:        NewSellerService(clients, properties, deals, activities, testLog),
		users:      users,
		clients:    clients,
		properties: properties,
		deals:      deals,
		activities: activities,
	}
}

var (
	sellerSession = domain.Session{UserID: 1, Role: domain.RoleSeller}
	adminSession  = domain.Session{UserID: 99, Role: domain.RoleAdmin}
)

func TestSellerService_CreateDeal(t *testing.T) {
	f := newSellerFixture()
	f.clients.add(domain.Client{ID: 10, Name: "Petar Petrovic"})
	f.properties.add(domain.Property{ID: 20, Title: "Two-bedroom apartment"})

	deal, err := f.svc.CreateDeal(context.Background(), sellerSession, ports.CreateDealInput{
		Title: "Apartment for Petar", ClientID: 10, PropertyID: 20,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if deal.Stage != domain.StageNew {
		t.Fatalf("expected default stage new, got %s", deal.Stage)
	}
	if deal.CloseDate != nil {
		t.Fatalf("new deal must have no close date")
	}
	if deal.UserID != sellerSession.UserID {
		t.Fatalf("owner must come from the session, got %d", deal.UserID)
	}
	if deal.Client.Name != "Petar Petrovic" || deal.Property.Title != "Two-bedroom apartment" {
		t.Fatalf("references not resolved: %+v", deal)
	}
}

func TestSellerService_CreateDeal_MissingReferences(t *testing.T) {
	f := newSellerFixture()
	f.clients.add(domain.Client{ID: 10, Name: "Petar"})

	if _, err := f.svc.CreateDeal(context.Background(), sellerSession, ports.CreateDealInput{
		Title: "x", ClientID: 404, PropertyID: 20,
	}); !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}

	if _, err := f.svc.CreateDeal(context.Background(), sellerSession, ports.CreateDealInput{
		Title: "x", ClientID: 10, PropertyID: 404,
	}); !errors.Is(err, domain.ErrPropertyNotFound) {
		t.Fatalf("expected ErrPropertyNotFound, got %v", err)
	}
}

func TestSellerService_UpdateDealStage_Forward(t *testing.T) {
	f := newSellerFixture()
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNew, UserID: 1})

	deal, err := f.svc.UpdateDealStage(context.Background(), sellerSession, 1, domain.StageWon)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if deal.Stage != domain.StageWon {
		t.Fatalf("expected stage won, got %s", deal.Stage)
	}
	if deal.CloseDate == nil {
		t.Fatalf("terminal stage must set close date")
	}
	if time.Since(*deal.CloseDate) > time.Minute {
		t.Fatalf("close date not set to now: %v", deal.CloseDate)
	}
}

func TestSellerService_UpdateDealStage_NonTerminalClearsCloseDate(t *testing.T) {
	f := newSellerFixture()
	past := time.Now().Add(-time.Hour)
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNegotiation, CloseDate: &past, UserID: 1})

	deal, err := f.svc.UpdateDealStage(context.Background(), sellerSession, 1, domain.StageOfferSent)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if deal.CloseDate != nil {
		t.Fatalf("non-terminal stage must clear close date, got %v", deal.CloseDate)
	}
}

func TestSellerService_UpdateDealStage_Backwards(t *testing.T) {
	f := newSellerFixture()
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNegotiation, UserID: 1})

	if _, err := f.svc.UpdateDealStage(context.Background(), sellerSession, 1, domain.StageNew); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	d, _ := f.deals.FindByID(context.Background(), 1)
	if d.Stage != domain.StageNegotiation {
		t.Fatalf("rejected transition must not change the deal, got %s", d.Stage)
	}
}

func TestSellerService_UpdateDealStage_WonToLost(t *testing.T) {
	f := newSellerFixture()
	closed := time.Now().Add(-time.Hour)
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageWon, CloseDate: &closed, UserID: 1})

	deal, err := f.svc.UpdateDealStage(context.Background(), sellerSession, 1, domain.StageLost)
	if err != nil {
		t.Fatalf("won to lost is a forward move, got %v", err)
	}
	if deal.Stage != domain.StageLost || deal.CloseDate == nil {
		t.Fatalf("unexpected deal after transition: %+v", deal)
	}
}

func TestSellerService_UpdateDealStage_Ownership(t *testing.T) {
	f := newSellerFixture()
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNew, UserID: 2})

	if _, err := f.svc.UpdateDealStage(context.Background(), sellerSession, 1, domain.StageWon); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign deal, got %v", err)
	}

	// An admin bypasses the ownership check.
	if _, err := f.svc.UpdateDealStage(context.Background(), adminSession, 1, domain.StageWon); err != nil {
		t.Fatalf("admin transition failed: %v", err)
	}
}

func TestSellerService_UpdateDealStage_NotFound(t *testing.T) {
	f := newSellerFixture()
	if _, err := f.svc.UpdateDealStage(context.Background(), sellerSession, 404, domain.StageWon); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
}

func TestSellerService_ListDeals_AdminSeesAll(t *testing.T) {
	f := newSellerFixture()
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNew, UserID: 1})
	f.deals.add(domain.Deal{ID: 2, Stage: domain.StageNew, UserID: 2})

	mine, err := f.svc.ListDeals(context.Background(), sellerSession)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("seller should see 1 deal, got %d", len(mine))
	}

	all, err := f.svc.ListDeals(context.Background(), adminSession)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admin should see 2 deals, got %d", len(all))
	}
}

func TestSellerService_ListMyClients_Transitive(t *testing.T) {
	f := newSellerFixture()
	f.clients.add(domain.Client{ID: 10, Name: "Petar"})
	f.clients.add(domain.Client{ID: 11, Name: "Jelena"})
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNew, UserID: 1, ClientID: 10})

	clients, err := f.svc.ListMyClients(context.Background(), sellerSession)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(clients) != 1 || clients[0].ID != 10 {
		t.Fatalf("expected only the deal-linked client, got %+v", clients)
	}
}

func TestSellerService_UpdateClient_Ownership(t *testing.T) {
	f := newSellerFixture()
	f.clients.add(domain.Client{ID: 10, Name: "Petar"})
	name := "Petar P."

	// No deal links seller 1 to client 10 yet.
	if _, err := f.svc.UpdateClient(context.Background(), sellerSession, 10, ports.ClientUpdate{Name: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNew, UserID: 1, ClientID: 10})
	client, err := f.svc.UpdateClient(context.Background(), sellerSession, 10, ports.ClientUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if client.Name != "Petar P." {
		t.Fatalf("update not applied: %+v", client)
	}

	// Admin edits any client without a linking deal.
	other := "Renamed"
	if _, err := f.svc.UpdateClient(context.Background(), adminSession, 10, ports.ClientUpdate{Name: &other}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestSellerService_Activities(t *testing.T) {
	f := newSellerFixture()
	f.deals.add(domain.Deal{ID: 1, Stage: domain.StageNew, UserID: 1})
	f.deals.add(domain.Deal{ID: 2, Stage: domain.StageNew, UserID: 2})

	if _, err := f.svc.AddActivity(context.Background(), sellerSession, 404, ports.ActivityInput{Subject: "x"}); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("expected ErrDealNotFound, got %v", err)
	}
	if _, err := f.svc.AddActivity(context.Background(), sellerSession, 2, ports.ActivityInput{Subject: "x"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	activity, err := f.svc.AddActivity(context.Background(), sellerSession, 1, ports.ActivityInput{Subject: "Intro call"})
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if activity.DealID != 1 {
		t.Fatalf("activity bound to wrong deal: %+v", activity)
	}

	list, err := f.svc.ListActivities(context.Background(), sellerSession, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].Subject != "Intro call" {
		t.Fatalf("unexpected activities: %+v", list)
	}
}
