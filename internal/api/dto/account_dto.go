package dto

import (
	"time"

	"github.com/uav-store/backend/internal/domain"
)

// SignupRequest payload for new customers.
type SignupRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm"`
	Role            string `json:"role,omitempty" form:"role"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UpdatePasswordRequest payload for rotating the caller's password.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"password_current"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// SetRoleRequest payload for admin role assignment.
type SetRoleRequest struct {
	CustomerID string `json:"customer_id"`
	Role       string `json:"role"`
}

// UpdateCustomerRequest payload for admin profile edits.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CustomerResponse is the public view of an account.
type CustomerResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewCustomerResponse maps an account, omitting credentials.
func NewCustomerResponse(a *domain.Account) CustomerResponse {
	return CustomerResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewCustomerList maps a slice of accounts.
func NewCustomerList(accounts []domain.Account) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, NewCustomerResponse(&accounts[i]))
	}
	return out
}
