package domain

import "time"

// Review is a customer's rating of a product.
type Review struct {
	ID         string
	ProductID  string
	CustomerID string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidRating reports whether r is within the accepted 1..5 scale.
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
