package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/uav-store/backend/internal/auth"
	"github.com/uav-store/backend/internal/config"
	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/repository"
	apperrors "github.com/uav-store/backend/pkg/util"
)

const minPasswordLen = 8

// SignupInput describes a self-service registration.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// AuthService coordinates registration, login and password rotation.
type AuthService struct {
	accounts   repository.AccountRepository
	tokens     *auth.TokenService
	bcryptCost int
	now        func() time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokens:     auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL()),
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// Signup creates a new account with the default role and signs it in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.Account, domain.Token, error) {
	account, err := s.register(ctx, input, domain.DefaultRole)
	if err != nil {
		return nil, domain.Token{}, err
	}
	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return account, token, nil
}

func (s *AuthService) register(ctx context.Context, input SignupInput, role domain.Role) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	problems := map[string]any{}
	if name == "" {
		problems["name"] = "Please tell us your name"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		problems["email"] = "Please provide a valid email"
	}
	if len(input.Password) < minPasswordLen {
		problems["password"] = "Password must be at least 8 characters"
	}
	if input.Password != input.PasswordConfirm {
		problems["password_confirm"] = "Passwords are not the same"
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError("invalid signup payload", problems)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
		}
		return nil, err
	}
	return account, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords yield the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Account, domain.Token, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.Token{}, apperrors.NewValidationError("Please provide email and password!", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, domain.Token{}, auth.ErrInvalidCredentials
		}
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	ok, err := auth.PasswordMatches(account.PasswordHash, password)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	if !ok {
		return nil, domain.Token{}, auth.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return account, token, nil
}

// ChangePassword verifies the current password, stores the new one and
// returns a fresh token. Tokens issued before the change stop working.
func (s *AuthService) ChangePassword(ctx context.Context, account *domain.Account, current, next, confirm string) (domain.Token, error) {
	ok, err := auth.PasswordMatches(account.PasswordHash, current)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	if !ok {
		return domain.Token{}, apperrors.NewUnauthorized("Your current password is wrong")
	}
	problems := map[string]any{}
	if len(next) < minPasswordLen {
		problems["password"] = "Password must be at least 8 characters"
	}
	if next != confirm {
		problems["password_confirm"] = "Passwords are not the same"
	}
	if len(problems) > 0 {
		return domain.Token{}, apperrors.NewValidationError("invalid password payload", problems)
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}

	// Tokens issued within this same second stay valid.
	changedAt := s.now().Truncate(time.Second)
	if err := s.accounts.UpdatePassword(ctx, account.ID, hash, changedAt); err != nil {
		return domain.Token{}, err
	}
	account.PasswordHash = hash
	account.PasswordChangedAt = &changedAt

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return domain.Token{}, apperrors.NewInternalError(err)
	}
	return token, nil
}

// SetRole assigns role to the account with the given id.
func (s *AuthService) SetRole(ctx context.Context, accountID, role string) (*domain.Account, error) {
	parsed, err := domain.ParseRole(strings.TrimSpace(role))
	if err != nil {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if strings.TrimSpace(accountID) == "" {
		return nil, apperrors.NewValidationError("customer_id is required", nil)
	}
	if err := s.accounts.UpdateRole(ctx, accountID, parsed); err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("customer", map[string]any{"id": accountID})
		}
		return nil, err
	}
	return s.accounts.GetByID(ctx, accountID)
}

// Tokens exposes the token service for the access gate.
func (s *AuthService) Tokens() *auth.TokenService {
	return s.tokens
}
