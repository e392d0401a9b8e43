package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/uav-store/backend/internal/config"
	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/events"
	"github.com/uav-store/backend/internal/repository"
)

var testAuthConfig = config.AuthConfig{
	JWTSecret:       "test-secret",
	TokenTTLMinutes: 60,
	BcryptCost:      4,
}

type fakeAccountRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byID: map[string]*domain.Account{}}
}

func (f *fakeAccountRepo) Create(_ context.Context, a *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == strings.ToLower(a.Email) {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	a.ID = uuid.NewString()
	a.Email = strings.ToLower(a.Email)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	f.byID[a.ID] = &cp
	return nil
}

func (f *fakeAccountRepo) UpdateProfile(_ context.Context, a *domain.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[a.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Name = a.Name
	stored.Email = a.Email
	return nil
}

func (f *fakeAccountRepo) UpdatePassword(_ context.Context, id, hash string, changedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.PasswordHash = hash
	stored.PasswordChangedAt = &changedAt
	return nil
}

func (f *fakeAccountRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Role = role
	return nil
}

func (f *fakeAccountRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *stored
	return &cp, nil
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stored := range f.byID {
		if stored.Email == strings.ToLower(email) {
			cp := *stored
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAccountRepo) List(_ context.Context, _ repository.Page) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Account
	for _, stored := range f.byID {
		out = append(out, *stored)
	}
	return out, nil
}

type fakeProductRepo struct {
	byID          map[string]*domain.Product
	prominentHits int
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	f := &fakeProductRepo{byID: map[string]*domain.Product{}}
	for i := range products {
		p := products[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		f.byID[p.ID] = &p
	}
	return f
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	for _, existing := range f.byID {
		if existing.Name == p.Name {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	p.ID = uuid.NewString()
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *domain.Product) error {
	if _, ok := f.byID[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *p
	f.byID[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.byID {
		if filter.SlugPrefix != "" && !strings.HasPrefix(p.Slug, filter.SlugPrefix) {
			continue
		}
		if len(filter.Categories) > 0 && !overlaps(p.Category, filter.Categories) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (f *fakeProductRepo) ListProminent(_ context.Context, limit int) ([]domain.Product, error) {
	f.prominentHits++
	var out []domain.Product
	for _, p := range f.byID {
		if p.IsProminent && len(out) < limit {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) GetPrices(_ context.Context, ids []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out[id] = p.Price
		}
	}
	return out, nil
}

type memoryProductCache struct {
	products    []domain.Product
	ok          bool
	invalidated int
}

func (m *memoryProductCache) GetFeatured(context.Context) ([]domain.Product, bool, error) {
	return m.products, m.ok, nil
}

func (m *memoryProductCache) SetFeatured(_ context.Context, products []domain.Product) error {
	m.products, m.ok = products, true
	return nil
}

func (m *memoryProductCache) Invalidate(context.Context) error {
	m.products, m.ok = nil, false
	m.invalidated++
	return nil
}

type fakeReviewRepo struct {
	byID map[string]*domain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{byID: map[string]*domain.Review{}}
}

func (f *fakeReviewRepo) Create(_ context.Context, r *domain.Review) error {
	for _, existing := range f.byID {
		if existing.ProductID == r.ProductID && existing.CustomerID == r.CustomerID {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	r.ID = uuid.NewString()
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Update(_ context.Context, r *domain.Review) error {
	if _, ok := f.byID[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *r
	f.byID[r.ID] = &cp
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeReviewRepo) GetByID(_ context.Context, id string) (*domain.Review, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReviewRepo) List(_ context.Context, productID string, _ repository.Page) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.byID {
		if productID == "" || r.ProductID == productID {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeBillRepo struct {
	byID    map[string]*domain.Bill
	shipper string
}

func newFakeBillRepo(shipper string) *fakeBillRepo {
	return &fakeBillRepo{byID: map[string]*domain.Bill{}, shipper: shipper}
}

func (f *fakeBillRepo) Create(_ context.Context, b *domain.Bill) error {
	b.ID = uuid.NewString()
	for i := range b.Items {
		b.Items[i].ID = uuid.NewString()
		b.Items[i].BillID = b.ID
	}
	cp := *b
	f.byID[b.ID] = &cp
	return nil
}

func (f *fakeBillRepo) GetByID(_ context.Context, id string) (*domain.Bill, error) {
	b, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBillRepo) List(_ context.Context, filter repository.BillFilter) ([]domain.Bill, error) {
	var out []domain.Bill
	for _, b := range f.byID {
		if filter.ShipperID != nil && (b.ShipperID == nil || *b.ShipperID != *filter.ShipperID) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBillRepo) UpdatePaymentStatus(_ context.Context, id string, status domain.PaymentStatus, paidAt *time.Time) error {
	b, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	b.PaymentStatus = status
	b.PaidAt = paidAt
	return nil
}

func (f *fakeBillRepo) PickShipper(context.Context) (string, error) {
	if f.shipper == "" {
		return "", pgx.ErrNoRows
	}
	return f.shipper, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (r *recordingDispatcher) Publish(_ context.Context, e events.Event) error {
	r.published = append(r.published, e)
	return nil
}

func (r *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
