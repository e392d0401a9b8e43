package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uav-store/backend/internal/domain"
)

// ReviewRepository encapsulates review persistence. Every write also refreshes
// the reviewed product's average rating.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	List(ctx context.Context, productID string, page Page) ([]domain.Review, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

const reviewColumns = `id, product_id, customer_id, rating, comment, created_at, updated_at`

const refreshRatings = `
        UPDATE products SET ratings = (SELECT AVG(rating) FROM reviews WHERE product_id=$1)
        WHERE id=$1`

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if err := checkID(review.ProductID); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO reviews (product_id, customer_id, rating, comment)
            VALUES ($1,$2,$3,$4)
            RETURNING id, created_at, updated_at`
		if err := tx.QueryRow(ctx, query,
			review.ProductID,
			review.CustomerID,
			review.Rating,
			review.Comment,
		).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, refreshRatings, review.ProductID)
		return err
	})
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	if err := checkID(review.ID); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            UPDATE reviews SET rating=$1, comment=$2, updated_at=NOW()
            WHERE id=$3
            RETURNING updated_at`
		if err := tx.QueryRow(ctx, query, review.Rating, review.Comment, review.ID).Scan(&review.UpdatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, refreshRatings, review.ProductID)
		return err
	})
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var productID string
		if err := tx.QueryRow(ctx, `DELETE FROM reviews WHERE id=$1 RETURNING product_id`, id).Scan(&productID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, refreshRatings, productID)
		return err
	})
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id=$1`
	return scanReview(r.pool.QueryRow(ctx, query, id))
}

func (r *reviewRepository) List(ctx context.Context, productID string, page Page) ([]domain.Review, error) {
	page = page.normalize()
	args := []any{}
	where := "1=1"
	if productID != "" {
		if err := checkID(productID); err != nil {
			return nil, nil
		}
		args = append(args, productID)
		where = "product_id=$1"
	}
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		reviewColumns, where, page.Limit, page.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *review)
	}
	return result, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var review domain.Review
	if err := row.Scan(
		&review.ID,
		&review.ProductID,
		&review.CustomerID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &review, nil
}
