package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uav-store/backend/internal/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	SlugPrefix string
	Categories []string
	Search     string
	Page       Page
}

// ProductRepository encapsulates product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	ListProminent(ctx context.Context, limit int) ([]domain.Product, error)
	GetPrices(ctx context.Context, ids []string) (map[string]float64, error)
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository instantiates repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

const productColumns = `id, slug, name, images, manufacturer, category, weight, dimensions, battery_life,
               range_km, max_speed, sensor_type, release_date, supplier, quantity, description, ratings,
               price, accessories_included, compatibility, type, is_prominent, created_at, updated_at`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	const query = `
        INSERT INTO products (slug, name, images, manufacturer, category, weight, dimensions, battery_life,
            range_km, max_speed, sensor_type, release_date, supplier, quantity, description, ratings,
            price, accessories_included, compatibility, type, is_prominent)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, productArgs(p)...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := checkID(p.ID); err != nil {
		return err
	}
	const query = `
        UPDATE products SET slug=$1, name=$2, images=$3, manufacturer=$4, category=$5, weight=$6,
            dimensions=$7, battery_life=$8, range_km=$9, max_speed=$10, sensor_type=$11, release_date=$12,
            supplier=$13, quantity=$14, description=$15, ratings=$16, price=$17, accessories_included=$18,
            compatibility=$19, type=$20, is_prominent=$21, updated_at=NOW()
        WHERE id=$22
        RETURNING updated_at`
	args := append(productArgs(p), p.ID)
	return r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt)
}

func productArgs(p *domain.Product) []any {
	return []any{
		p.Slug,
		p.Name,
		nonNil(p.Images),
		p.Manufacturer,
		nonNil(p.Category),
		p.Weight,
		p.Dimensions,
		p.BatteryLife,
		p.Range,
		p.MaxSpeed,
		p.SensorType,
		p.ReleaseDate,
		p.Supplier,
		p.Quantity,
		p.Description,
		p.Ratings,
		p.Price,
		nonNil(p.AccessoriesIncluded),
		p.Compatibility,
		p.Type,
		p.IsProminent,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return execOne(ctx, r.pool, `DELETE FROM products WHERE id=$1`, id)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id=$1`
	return scanProduct(r.pool.QueryRow(ctx, query, id))
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if prefix := strings.TrimSpace(filter.SlugPrefix); prefix != "" {
		args = append(args, escapeLike(strings.ToLower(prefix))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(slug) LIKE $%d", len(args)))
	}
	if len(filter.Categories) > 0 {
		args = append(args, filter.Categories)
		clauses = append(clauses, fmt.Sprintf("category && $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(search))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}

	page := filter.Page.normalize()
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		productColumns, strings.Join(clauses, " AND "), page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) ListProminent(ctx context.Context, limit int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_prominent ORDER BY release_date DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *productRepository) GetPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if checkID(id) == nil {
			valid = append(valid, id)
		}
	}
	prices := make(map[string]float64, len(valid))
	if len(valid) == 0 {
		return prices, nil
	}

	rows, err := r.pool.Query(ctx, `SELECT id, price FROM products WHERE id = ANY($1::uuid[])`, valid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id    string
			price float64
		)
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.Images,
		&p.Manufacturer,
		&p.Category,
		&p.Weight,
		&p.Dimensions,
		&p.BatteryLife,
		&p.Range,
		&p.MaxSpeed,
		&p.SensorType,
		&p.ReleaseDate,
		&p.Supplier,
		&p.Quantity,
		&p.Description,
		&p.Ratings,
		&p.Price,
		&p.AccessoriesIncluded,
		&p.Compatibility,
		&p.Type,
		&p.IsProminent,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
