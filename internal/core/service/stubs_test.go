package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/crm-properties/crm-api/internal/core/domain"
	"github.com/crm-properties/crm-api/internal/core/ports"
)

var testLog = zerolog.Nop()

// --- users ---

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User), nextID: 1}
}

func (r *stubUserRepo) add(u domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	r.users[u.ID] = &u
	return &u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrEmailExists
		}
	}
	created := r.add(*user)
	clone := *created
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for id := int64(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListSellers(ctx context.Context) ([]domain.User, error) {
	all, _ := r.List(ctx)
	out := make([]domain.User, 0)
	for _, u := range all {
		if u.Role == domain.RoleSeller {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, id int64, upd ports.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Phone != nil {
		u.Phone = upd.Phone
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// --- clients ---

type stubClientRepo struct {
	clients map[int64]*domain.Client
	deals   *stubDealRepo
	nextID  int64
}

func newStubClientRepo(deals *stubDealRepo) *stubClientRepo {
	return &stubClientRepo{clients: make(map[int64]*domain.Client), deals: deals, nextID: 1}
}

func (r *stubClientRepo) add(c domain.Client) *domain.Client {
	if c.ID == 0 {
		c.ID = r.nextID
	}
	if c.ID >= r.nextID {
		r.nextID = c.ID + 1
	}
	r.clients[c.ID] = &c
	return &c
}

func (r *stubClientRepo) Create(_ context.Context, client *domain.Client) (*domain.Client, error) {
	created := r.add(*client)
	clone := *created
	return &clone, nil
}

func (r *stubClientRepo) FindByID(_ context.Context, id int64) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubClientRepo) List(_ context.Context) ([]domain.Client, error) {
	out := make([]domain.Client, 0, len(r.clients))
	for id := int64(1); id < r.nextID; id++ {
		if c, ok := r.clients[id]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubClientRepo) ListBySeller(_ context.Context, sellerID int64) ([]domain.Client, error) {
	seen := make(map[int64]bool)
	out := make([]domain.Client, 0)
	for _, d := range r.deals.all() {
		if d.UserID != sellerID || seen[d.ClientID] {
			continue
		}
		seen[d.ClientID] = true
		if c, ok := r.clients[d.ClientID]; ok {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubClientRepo) Update(_ context.Context, id int64, upd ports.ClientUpdate) (*domain.Client, error) {
	c, ok := r.clients[id]
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	if upd.Name != nil {
		c.Name = *upd.Name
	}
	if upd.Email != nil {
		c.Email = upd.Email
	}
	if upd.Phone != nil {
		c.Phone = upd.Phone
	}
	if upd.City != nil {
		c.City = upd.City
	}
	clone := *c
	return &clone, nil
}

// --- properties ---

type stubPropertyRepo struct {
	properties map[int64]*domain.Property
}

func newStubPropertyRepo() *stubPropertyRepo {
	return &stubPropertyRepo{properties: make(map[int64]*domain.Property)}
}

func (r *stubPropertyRepo) add(p domain.Property) *domain.Property {
	r.properties[p.ID] = &p
	return &p
}

func (r *stubPropertyRepo) FindByID(_ context.Context, id int64) (*domain.Property, error) {
	p, ok := r.properties[id]
	if !ok {
		return nil, domain.ErrPropertyNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPropertyRepo) List(_ context.Context) ([]domain.Property, error) {
	out := make([]domain.Property, 0, len(r.properties))
	for _, p := range r.properties {
		out = append(out, *p)
	}
	return out, nil
}

// --- deals ---

type stubDealRepo struct {
	deals  map[int64]*domain.Deal
	users  *stubUserRepo
	nextID int64
}

func newStubDealRepo(users *stubUserRepo) *stubDealRepo {
	return &stubDealRepo{deals: make(map[int64]*domain.Deal), users: users, nextID: 1}
}

func (r *stubDealRepo) all() []domain.Deal {
	out := make([]domain.Deal, 0, len(r.deals))
	for id := int64(1); id < r.nextID; id++ {
		if d, ok := r.deals[id]; ok {
			out = append(out, *d)
		}
	}
	return out
}

func (r *stubDealRepo) add(d domain.Deal) *domain.Deal {
	if d.ID == 0 {
		d.ID = r.nextID
	}
	if d.ID >= r.nextID {
		r.nextID = d.ID + 1
	}
	r.deals[d.ID] = &d
	return &d
}

func (r *stubDealRepo) Create(_ context.Context, deal *domain.Deal) (*domain.Deal, error) {
	created := r.add(*deal)
	clone := *created
	return &clone, nil
}

func (r *stubDealRepo) FindByID(_ context.Context, id int64) (*domain.Deal, error) {
	d, ok := r.deals[id]
	if !ok {
		return nil, domain.ErrDealNotFound
	}
	clone := *d
	return &clone, nil
}

func (r *stubDealRepo) ListBySeller(_ context.Context, sellerID int64) ([]ports.DealWithRefs, error) {
	all := r.all()
	out := make([]ports.DealWithRefs, 0)
	for i := len(all) - 1; i >= 0; i-- {
		d := all[i]
		if sellerID != 0 && d.UserID != sellerID {
			continue
		}
		out = append(out, ports.DealWithRefs{Deal: d})
	}
	return out, nil
}

func (r *stubDealRepo) Filter(_ context.Context, f ports.DealFilter) ([]ports.DealDetail, error) {
	out := make([]ports.DealDetail, 0)
	for _, d := range r.all() {
		if f.Stage != nil && d.Stage != *f.Stage {
			continue
		}
		if f.SellerID != nil && d.UserID != *f.SellerID {
			continue
		}
		if f.FromCloseDate != nil && (d.CloseDate == nil || d.CloseDate.Before(*f.FromCloseDate)) {
			continue
		}
		if f.ToCloseDate != nil && (d.CloseDate == nil || d.CloseDate.After(*f.ToCloseDate)) {
			continue
		}
		out = append(out, ports.DealDetail{Deal: d})
	}
	return out, nil
}

func (r *stubDealRepo) ListForMetrics(_ context.Context, sellerID int64, from, to *time.Time) ([]domain.Deal, error) {
	out := make([]domain.Deal, 0)
	for _, d := range r.all() {
		if d.UserID != sellerID {
			continue
		}
		if from != nil && (d.CloseDate == nil || d.CloseDate.Before(*from)) {
			continue
		}
		if to != nil && (d.CloseDate == nil || d.CloseDate.After(*to)) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *stubDealRepo) SummariesForSellers(ctx context.Context) ([]ports.DealSummary, error) {
	out := make([]ports.DealSummary, 0)
	for _, d := range r.all() {
		if r.users != nil {
			if u, err := r.users.FindByID(ctx, d.UserID); err != nil || u.Role != domain.RoleSeller {
				continue
			}
		}
		out = append(out, ports.DealSummary{SellerID: d.UserID, Stage: d.Stage, CloseDate: d.CloseDate})
	}
	return out, nil
}

func (r *stubDealRepo) UpdateStage(_ context.Context, id int64, expected, next domain.DealStage, closeDate *time.Time) error {
	d, ok := r.deals[id]
	if !ok || d.Stage != expected {
		return domain.ErrInvalidTransition
	}
	d.Stage = next
	d.CloseDate = closeDate
	return nil
}

func (r *stubDealRepo) SellerHasDealWith(_ context.Context, sellerID, clientID int64) (bool, error) {
	for _, d := range r.all() {
		if d.UserID == sellerID && d.ClientID == clientID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubDealRepo) ListIDsBySeller(_ context.Context, sellerID int64) ([]int64, error) {
	ids := make([]int64, 0)
	for _, d := range r.all() {
		if d.UserID == sellerID {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}

func (r *stubDealRepo) DeleteBySeller(_ context.Context, sellerID int64) error {
	for id, d := range r.deals {
		if d.UserID == sellerID {
			delete(r.deals, id)
		}
	}
	return nil
}

// --- activities ---

type stubActivityRepo struct {
	activities map[int64]*domain.Activity
	nextID     int64
}

func newStubActivityRepo() *stubActivityRepo {
	return &stubActivityRepo{activities: make(map[int64]*domain.Activity), nextID: 1}
}

func (r *stubActivityRepo) Create(_ context.Context, activity *domain.Activity) (*domain.Activity, error) {
	a := *activity
	a.ID = r.nextID
	r.nextID++
	r.activities[a.ID] = &a
	clone := a
	return &clone, nil
}

func (r *stubActivityRepo) ListByDeal(_ context.Context, dealID int64) ([]domain.Activity, error) {
	out := make([]domain.Activity, 0)
	for id := int64(1); id < r.nextID; id++ {
		if a, ok := r.activities[id]; ok && a.DealID == dealID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubActivityRepo) DeleteByDealIDs(_ context.Context, dealIDs []int64) error {
	for _, dealID := range dealIDs {
		for id, a := range r.activities {
			if a.DealID == dealID {
				delete(r.activities, id)
			}
		}
	}
	return nil
}

// --- stats ---

type stubStatsRepo struct {
	counts ports.EntityCounts
	calls  int
}

func (r *stubStatsRepo) EntityCounts(_ context.Context) (*ports.EntityCounts, error) {
	r.calls++
	c := r.counts
	return &c, nil
}

// --- metrics cache ---

type stubMetricsCache struct {
	stored *ports.GlobalMetrics
	gets   int
	sets   int
}

func (c *stubMetricsCache) Get(_ context.Context) (*ports.GlobalMetrics, bool, error) {
	c.gets++
	if c.stored == nil {
		return nil, false, nil
	}
	clone := *c.stored
	return &clone, true, nil
}

func (c *stubMetricsCache) Set(_ context.Context, m *ports.GlobalMetrics) error {
	c.sets++
	clone := *m
	c.stored = &clone
	return nil
}
