package service

import (
	"context"
	"strings"

	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/repository"
	apperrors "github.com/uav-store/backend/pkg/util"
)

// ReviewInput describes a new or changed review.
type ReviewInput struct {
	ProductID string
	Rating    *int
	Comment   *string
}

// ReviewService manages product reviews.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
}

// NewReviewService constructs the service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

// List returns reviews, scoped to productID when it is not empty.
func (s *ReviewService) List(ctx context.Context, productID string, page repository.Page) ([]domain.Review, error) {
	return s.reviews.List(ctx, productID, page)
}

// Get returns a single review.
func (s *ReviewService) Get(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("review", id, err)
	}
	return review, nil
}

// Create stores a review written by author.
func (s *ReviewService) Create(ctx context.Context, author *domain.Account, input ReviewInput) (*domain.Review, error) {
	problems := map[string]any{}
	if strings.TrimSpace(input.ProductID) == "" {
		problems["product_id"] = "Review must belong to a product"
	}
	if input.Rating == nil || !domain.ValidRating(*input.Rating) {
		problems["rating"] = "Rating must be between 1 and 5"
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid review payload", problems)
	}
	if _, err := s.products.GetByID(ctx, input.ProductID); err != nil {
		return nil, notFound("product", input.ProductID, err)
	}

	review := &domain.Review{
		ProductID:  input.ProductID,
		CustomerID: author.ID,
		Rating:     *input.Rating,
	}
	if input.Comment != nil {
		review.Comment = strings.TrimSpace(*input.Comment)
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("you have already reviewed this product", map[string]any{"product_id": input.ProductID})
		}
		return nil, err
	}
	return review, nil
}

// Update changes rating or comment. Only the author or an admin may do so.
func (s *ReviewService) Update(ctx context.Context, actor *domain.Account, id string, input ReviewInput) (*domain.Review, error) {
	review, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.Rating != nil {
		if !domain.ValidRating(*input.Rating) {
			return nil, apperrors.NewValidationError("invalid review payload", map[string]any{"rating": "Rating must be between 1 and 5"})
		}
		review.Rating = *input.Rating
	}
	if input.Comment != nil {
		review.Comment = strings.TrimSpace(*input.Comment)
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, notFound("review", id, err)
	}
	return review, nil
}

// Delete removes a review. Only the author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, actor *domain.Account, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return notFound("review", id, s.reviews.Delete(ctx, id))
}

func (s *ReviewService) owned(ctx context.Context, actor *domain.Account, id string) (*domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.CustomerID != actor.ID && !actor.HasRole(domain.RoleAdmin) {
		return nil, apperrors.NewForbidden("you can only change your own reviews")
	}
	return review, nil
}
