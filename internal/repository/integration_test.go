//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/persistence"
	apperrors "github.com/uav-store/backend/pkg/util"
)

var (
	testPool  *pgxpool.Pool
	testRedis *redis.Client
)

// TestMain starts throwaway Postgres and Redis containers shared by every
// test in the package. Run with: go test -tags integration ./internal/repository/...
func TestMain(m *testing.M) {
	ctx := context.Background()

	pg, dsn, err := startPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}
	rd, addr, err := startRedis(ctx)
	if err != nil {
		_ = pg.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "start redis: %v\n", err)
		os.Exit(1)
	}

	code := func() int {
		pool, err := pgxpool.New(ctx, dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect postgres: %v\n", err)
			return 1
		}
		defer pool.Close()
		if err := persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			return 1
		}
		testPool = pool

		testRedis = redis.NewClient(&redis.Options{Addr: addr})
		defer testRedis.Close()

		return m.Run()
	}()

	_ = rd.Terminate(ctx)
	_ = pg.Terminate(ctx)
	os.Exit(code)
}

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "store",
			"POSTGRES_PASSWORD": "store",
			"POSTGRES_DB":       "store",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}
	host, err := container.Host(ctx)
	if err != nil {
		return container, "", err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return container, "", err
	}
	dsn := fmt.Sprintf("postgres://store:store@%s:%s/store?sslmode=disable", host, port.Port())
	return container, dsn, nil
}

func startRedis(ctx context.Context) (testcontainers.Container, string, error) {
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", err
	}
	host, err := container.Host(ctx)
	if err != nil {
		return container, "", err
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		return container, "", err
	}
	return container, fmt.Sprintf("%s:%s", host, port.Port()), nil
}

func createAccount(t *testing.T, repo AccountRepository, email string, role domain.Role) *domain.Account {
	t.Helper()
	account := &domain.Account{Name: "Test", Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func createProduct(t *testing.T, repo ProductRepository, name string, price float64) *domain.Product {
	t.Helper()
	product := &domain.Product{
		Name:         name,
		Manufacturer: "Skyworks",
		Category:     []string{"camera", "racing"},
		ReleaseDate:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Supplier:     "Skyworks Direct",
		Quantity:     5,
		Description:  "A test drone",
		Price:        price,
		Type:         map[string]any{"class": "quadcopter"},
	}
	product.Normalize()
	require.NoError(t, repo.Create(context.Background(), product))
	return product
}

func TestAccountRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(testPool)

	account := createAccount(t, repo, "Mixed.Case@Example.com", domain.RoleUser)
	require.NotEmpty(t, account.ID)
	require.Equal(t, "mixed.case@example.com", account.Email)

	dup := &domain.Account{Name: "Dup", Email: "mixed.case@example.com", PasswordHash: "hash", Role: domain.RoleUser}
	require.True(t, IsUniqueViolation(repo.Create(ctx, dup)))

	found, err := repo.GetByEmail(ctx, "MIXED.case@example.com")
	require.NoError(t, err)
	require.Equal(t, account.ID, found.ID)

	require.NoError(t, repo.UpdateRole(ctx, account.ID, domain.RoleAdmin))
	changedAt := time.Now().Truncate(time.Second)
	require.NoError(t, repo.UpdatePassword(ctx, account.ID, "new-hash", changedAt))

	reloaded, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, reloaded.Role)
	require.Equal(t, "new-hash", reloaded.PasswordHash)
	require.NotNil(t, reloaded.PasswordChangedAt)
	require.True(t, reloaded.PasswordChangedAt.Equal(changedAt))

	_, err = repo.GetByID(ctx, "not-a-uuid")
	require.True(t, apperrors.IsNoRows(err))
	require.True(t, apperrors.IsNoRows(repo.Delete(ctx, "00000000-0000-0000-0000-000000000000")))
}

func TestProductRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testPool)

	product := createProduct(t, repo, "Falcon Scout", 499.99)
	require.Equal(t, "falcon-scout", product.Slug)

	dup := *product
	dup.ID = ""
	require.True(t, IsUniqueViolation(repo.Create(ctx, &dup)))

	byPrefix, err := repo.List(ctx, ProductFilter{SlugPrefix: "falcon"})
	require.NoError(t, err)
	require.NotEmpty(t, byPrefix)

	byCategory, err := repo.List(ctx, ProductFilter{Categories: []string{"racing"}})
	require.NoError(t, err)
	require.NotEmpty(t, byCategory)

	prices, err := repo.GetPrices(ctx, []string{product.ID, "not-a-uuid"})
	require.NoError(t, err)
	require.Equal(t, map[string]float64{product.ID: 499.99}, prices)
}

func TestBillRepository(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository(testPool)
	products := NewProductRepository(testPool)
	bills := NewBillRepository(testPool)

	customer := createAccount(t, accounts, "buyer@example.com", domain.RoleUser)
	shipper := createAccount(t, accounts, "courier@example.com", domain.RoleShipper)
	product := createProduct(t, products, "Heron Mapper", 120.10)

	picked, err := bills.PickShipper(ctx)
	require.NoError(t, err)
	require.Equal(t, shipper.ID, picked)

	bill := &domain.Bill{
		CustomerID:      customer.ID,
		ShipperID:       &picked,
		ShippingAddress: "1 Runway Rd",
		Phone:           "555-0100",
		PaymentStatus:   domain.PaymentStatusPending,
		Items:           []domain.BillItem{{ProductID: product.ID, Quantity: 2, UnitPrice: product.Price}},
		Total:           240.20,
	}
	require.NoError(t, bills.Create(ctx, bill))
	require.NotEmpty(t, bill.ID)
	require.Equal(t, bill.ID, bill.Items[0].BillID)

	stored, err := bills.GetByID(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	require.Equal(t, 2, stored.Items[0].Quantity)

	paidAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, bills.UpdatePaymentStatus(ctx, bill.ID, domain.PaymentStatusPaid, &paidAt))

	assigned, err := bills.List(ctx, BillFilter{ShipperID: &shipper.ID})
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	require.Equal(t, domain.PaymentStatusPaid, assigned[0].PaymentStatus)
	require.NotNil(t, assigned[0].PaidAt)
	require.Len(t, assigned[0].Items, 1)

	require.True(t, apperrors.IsNoRows(bills.UpdatePaymentStatus(ctx, "not-a-uuid", domain.PaymentStatusPaid, nil)))
}

func TestReviewRepositoryRefreshesRatings(t *testing.T) {
	ctx := context.Background()
	accounts := NewAccountRepository(testPool)
	products := NewProductRepository(testPool)
	reviews := NewReviewRepository(testPool)

	product := createProduct(t, products, "Kestrel Survey", 899)
	first := createAccount(t, accounts, "reviewer1@example.com", domain.RoleUser)
	second := createAccount(t, accounts, "reviewer2@example.com", domain.RoleUser)

	require.NoError(t, reviews.Create(ctx, &domain.Review{ProductID: product.ID, CustomerID: first.ID, Rating: 5}))
	r2 := &domain.Review{ProductID: product.ID, CustomerID: second.ID, Rating: 2}
	require.NoError(t, reviews.Create(ctx, r2))

	dup := &domain.Review{ProductID: product.ID, CustomerID: first.ID, Rating: 1}
	require.True(t, IsUniqueViolation(reviews.Create(ctx, dup)))

	reloaded, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Ratings)
	require.InDelta(t, 3.5, *reloaded.Ratings, 1e-9)

	require.NoError(t, reviews.Delete(ctx, r2.ID))
	reloaded, err = products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.InDelta(t, 5.0, *reloaded.Ratings, 1e-9)

	listed, err := reviews.List(ctx, product.ID, Page{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestRevocationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRevocationRepository(testRedis)

	require.NoError(t, repo.Revoke(ctx, "jti-live", time.Now().Add(time.Minute)))
	revoked, err := repo.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	require.True(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-expired", time.Now().Add(-time.Minute)))
	revoked, err = repo.IsRevoked(ctx, "jti-expired")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestProductCache(t *testing.T) {
	ctx := context.Background()
	cache := NewProductCache(testRedis, time.Minute)

	_, hit, err := cache.GetFeatured(ctx)
	require.NoError(t, err)
	require.False(t, hit)

	require.NoError(t, cache.SetFeatured(ctx, []domain.Product{{ID: "p1", Name: "Falcon"}}))
	cached, hit, err := cache.GetFeatured(ctx)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, "Falcon", cached[0].Name)

	require.NoError(t, cache.Invalidate(ctx))
	_, hit, err = cache.GetFeatured(ctx)
	require.NoError(t, err)
	require.False(t, hit)
}
