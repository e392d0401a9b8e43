package auth

import (
	"context"
	"time"
)

// RevocationStore records tokens that were explicitly logged out. It is
// optional; without one, tokens stay valid until they expire or the password
// is rotated.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
