package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/repository"
	apperrors "github.com/uav-store/backend/pkg/util"
)

// CustomerUpdate carries the profile fields an admin may change.
type CustomerUpdate struct {
	Name  *string
	Email *string
}

// CustomerService manages customer accounts on behalf of administrators.
type CustomerService struct {
	accounts repository.AccountRepository
	auth     *AuthService
}

// NewCustomerService constructs the service.
func NewCustomerService(accounts repository.AccountRepository, authService *AuthService) *CustomerService {
	return &CustomerService{accounts: accounts, auth: authService}
}

// Create registers an account without signing it in. Role is limited to the
// default by the privilege-escalation guard in front of this call.
func (s *CustomerService) Create(ctx context.Context, input SignupInput) (*domain.Account, error) {
	return s.auth.register(ctx, input, domain.DefaultRole)
}

// List returns accounts page by page.
func (s *CustomerService) List(ctx context.Context, page repository.Page) ([]domain.Account, error) {
	return s.accounts.List(ctx, page)
}

// Get returns a single account.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("customer", id, err)
	}
	return account, nil
}

// Update changes profile fields. Role and password are never touched here.
func (s *CustomerService) Update(ctx context.Context, id string, input CustomerUpdate) (*domain.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("invalid customer payload", map[string]any{"name": "Please tell us your name"})
		}
		account.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperrors.NewValidationError("invalid customer payload", map[string]any{"email": "Please provide a valid email"})
		}
		account.Email = email
	}
	if err := s.accounts.UpdateProfile(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": account.Email})
		}
		return nil, notFound("customer", id, err)
	}
	return account, nil
}

// Delete removes an account.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return apperrors.NewConflict("customer still has bills", map[string]any{"id": id})
		}
		return notFound("customer", id, err)
	}
	return nil
}

// notFound turns a missing row into a typed 404 and leaves other errors as is.
func notFound(resource, id string, err error) error {
	if apperrors.IsNoRows(err) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}
