package service

import (
	"context"
	"errors"
	"testing"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

type adminFixture struct {
	svc        *AdminService
	users      *stubUserRepo
	deals      *stubDealRepo
	activities *stubActivityRepo
	stats      *stubStatsRepo
	cache      *stubMetricsCache
}

func newAdminFixture() *adminFixture {
	users := newStubUserRepo()
	deals := newStubDealRepo(users)
	activities := newStubActivityRepo()
	stats := &stubStatsRepo{}
	cache := &stubMetricsCache{}
	return &adminFixture{
		svc:        NewAdminService(users, deals, activities, stats, cache, testLog),
		users:      users,
		deals:      deals,
		activities: activities,
		stats:      stats,
		cache:      cache,
	}
}

func strPtr(s string) *string { return &s }

func TestAdminService_ListUsers(t *testing.T) {
	f := newAdminFixture()
	f.users.add(domain.User{Name: "Ivana", Role: domain.RoleAdmin})
	f.users.add(domain.User{Name: "Ana", Role: domain.RoleSeller})

	rows, err := f.svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if !r.Active {
			t.Fatalf("active is synthesized as true, got %+v", r)
		}
	}
}

func TestAdminService_UpdateUser_LastAdminGuard(t *testing.T) {
	f := newAdminFixture()
	ivana := f.users.add(domain.User{Name: "Ivana", Role: domain.RoleAdmin})

	if _, err := f.svc.UpdateUser(context.Background(), ivana.ID, ports.UserUpdate{
		Role: strPtr(domain.RoleSeller),
	}); !errors.Is(err, domain.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}

	// With a second admin in place the demotion goes through.
	f.users.add(domain.User{Name: "Backup Admin", Email: "backup@crm.local", Role: domain.RoleAdmin})
	user, err := f.svc.UpdateUser(context.Background(), ivana.ID, ports.UserUpdate{
		Role: strPtr(domain.RoleSeller),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if user.Role != domain.RoleSeller {
		t.Fatalf("role not applied: %+v", user)
	}
}

func TestAdminService_UpdateUser_AdminToAdmin(t *testing.T) {
	f := newAdminFixture()
	ivana := f.users.add(domain.User{Name: "Ivana", Role: domain.RoleAdmin})

	// Re-asserting the admin role is not a demotion and passes the guard.
	if _, err := f.svc.UpdateUser(context.Background(), ivana.ID, ports.UserUpdate{
		Role: strPtr(domain.RoleAdmin),
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestAdminService_DeleteUser_LastAdminGuard(t *testing.T) {
	f := newAdminFixture()
	ivana := f.users.add(domain.User{Name: "Ivana", Role: domain.RoleAdmin})

	if err := f.svc.DeleteUser(context.Background(), ivana.ID); !errors.Is(err, domain.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), ivana.ID); err != nil {
		t.Fatalf("guarded user must survive: %v", err)
	}
}

func TestAdminService_DeleteUser_Cascade(t *testing.T) {
	f := newAdminFixture()
	ana := f.users.add(domain.User{Name: "Ana", Role: domain.RoleSeller})
	f.users.add(domain.User{Name: "Ivana", Email: "ivana@crm.local", Role: domain.RoleAdmin})

	deal, _ := f.deals.Create(context.Background(), &domain.Deal{Stage: domain.StageNew, UserID: ana.ID})
	keep, _ := f.deals.Create(context.Background(), &domain.Deal{Stage: domain.StageNew, UserID: 777})
	_, _ = f.activities.Create(context.Background(), &domain.Activity{Subject: "call", DealID: deal.ID})
	_, _ = f.activities.Create(context.Background(), &domain.Activity{Subject: "other", DealID: keep.ID})

	if err := f.svc.DeleteUser(context.Background(), ana.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := f.users.FindByID(context.Background(), ana.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user should be gone, got %v", err)
	}
	if _, err := f.deals.FindByID(context.Background(), deal.ID); !errors.Is(err, domain.ErrDealNotFound) {
		t.Fatalf("deal should be gone, got %v", err)
	}
	gone, _ := f.activities.ListByDeal(context.Background(), deal.ID)
	if len(gone) != 0 {
		t.Fatalf("activities of the deleted user's deals should be gone, got %d", len(gone))
	}
	kept, _ := f.activities.ListByDeal(context.Background(), keep.ID)
	if len(kept) != 1 {
		t.Fatalf("other sellers' activities must survive, got %d", len(kept))
	}
}

func TestAdminService_DeleteUser_NotFound(t *testing.T) {
	f := newAdminFixture()
	if err := f.svc.DeleteUser(context.Background(), 404); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAdminService_GlobalMetrics(t *testing.T) {
	f := newAdminFixture()
	f.stats.counts = ports.EntityCounts{
		Users: 3, Clients: 2, Properties: 2, Deals: 5, Activities: 4, OpenDeals: 3,
	}

	m, err := f.svc.GlobalMetrics(context.Background())
	if err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if m.ClosedDeals != 2 {
		t.Fatalf("closedDeals must be deals minus openDeals, got %d", m.ClosedDeals)
	}
	if f.cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", f.cache.sets)
	}

	// The second read is served from the cache.
	if _, err := f.svc.GlobalMetrics(context.Background()); err != nil {
		t.Fatalf("metrics failed: %v", err)
	}
	if f.stats.calls != 1 {
		t.Fatalf("expected one database read, got %d", f.stats.calls)
	}
}

func TestAdminService_GlobalMetrics_NilCache(t *testing.T) {
	f := newAdminFixture()
	f.svc = NewAdminService(f.users, f.deals, f.activities, f.stats, nil, testLog)
	f.stats.counts = ports.EntityCounts{Deals: 1}

	if _, err := f.svc.GlobalMetrics(context.Background()); err != nil {
		t.Fatalf("metrics without cache failed: %v", err)
	}
}

func TestAdminService_ExportGlobalMetricsCSV(t *testing.T) {
	f := newAdminFixture()
	f.stats.counts = ports.EntityCounts{
		Users: 3, Clients: 2, Properties: 2, Deals: 2, Activities: 4, OpenDeals: 2,
	}

	file, err := f.svc.ExportGlobalMetricsCSV(context.Background())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if file.Filename != "global-metrics.csv" || file.ContentType != "text/csv" {
		t.Fatalf("unexpected file meta: %+v", file)
	}

	want := "metric,value\n" +
		"users,3\n" +
		"clients,2\n" +
		"properties,2\n" +
		"deals,2\n" +
		"openDeals,2\n" +
		"closedDeals,0\n" +
		"activities,4\n"
	if string(file.Content) != want {
		t.Fatalf("unexpected CSV:\n%s", file.Content)
	}
}
