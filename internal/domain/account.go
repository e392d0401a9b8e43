package domain

import (
	"fmt"
	"time"
)

// Role enumerates account privileges. The set is closed.
type Role string

const (
	RoleUser    Role = "user"
	RoleShipper Role = "shipper"
	RoleAdmin   Role = "admin"
)

// DefaultRole is assigned to every newly created account.
const DefaultRole = RoleUser

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleShipper, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts client input into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// Account is a customer record in the credential store.
type Account struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	PasswordChangedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PasswordChangedAfter reports whether the password was rotated after ts.
// Comparison happens at second granularity since token timestamps carry no
// sub-second precision.
func (a *Account) PasswordChangedAfter(ts time.Time) bool {
	if a == nil || a.PasswordChangedAt == nil {
		return false
	}
	return a.PasswordChangedAt.Unix() > ts.Unix()
}

// HasRole reports whether the account holds any of the given roles.
func (a *Account) HasRole(roles ...Role) bool {
	if a == nil {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
