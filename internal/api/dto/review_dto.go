package dto

import (
	"time"

	"github.com/uav-store/backend/internal/domain"
)

// ReviewRequest payload for review create and patch.
type ReviewRequest struct {
	ProductID string  `json:"product_id"`
	Rating    *int    `json:"rating"`
	Comment   *string `json:"comment"`
}

// ReviewResponse is the public view of a review.
type ReviewResponse struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	CustomerID string    `json:"customer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewReviewResponse maps a review.
func NewReviewResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		CustomerID: r.CustomerID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// NewReviewList maps a slice of reviews.
func NewReviewList(reviews []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReviewResponse(&reviews[i]))
	}
	return out
}
