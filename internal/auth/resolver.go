package auth

import (
	"context"
	"time"

	"github.com/uav-store/backend/internal/domain"
	apperrors "github.com/uav-store/backend/pkg/util"
)

// AccountFinder is the slice of the credential store the resolver reads.
type AccountFinder interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
}

// Resolver loads the account behind a verified token.
type Resolver struct {
	accounts AccountFinder
}

// NewResolver constructs a Resolver.
func NewResolver(accounts AccountFinder) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve returns the account for subjectID. A missing account yields
// ErrUnknownSubject; any other store failure is surfaced as an internal error.
func (r *Resolver) Resolve(ctx context.Context, subjectID string) (*domain.Account, error) {
	account, err := r.accounts.GetByID(ctx, subjectID)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, ErrUnknownSubject.WithCause(err)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if account == nil {
		return nil, ErrUnknownSubject
	}
	return account, nil
}

// IsStale reports whether the account's password was rotated after the token
// was issued.
func (r *Resolver) IsStale(account *domain.Account, issuedAt time.Time) bool {
	return account.PasswordChangedAfter(issuedAt)
}
