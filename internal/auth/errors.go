package auth

import (
	"net/http"

	apperrors "github.com/uav-store/backend/pkg/util"
)

// Authentication and authorization failures. Each is terminal for the request.
var (
	ErrMissingToken = apperrors.NewDomainError("MISSING_TOKEN",
		"You are not logged in! Please log in to get access", http.StatusUnauthorized, nil)
	ErrInvalidToken = apperrors.NewDomainError("INVALID_TOKEN",
		"Invalid or expired token. Please log in again", http.StatusUnauthorized, nil)
	ErrUnknownSubject = apperrors.NewDomainError("UNKNOWN_SUBJECT",
		"The user belonging to this token does no longer exist", http.StatusUnauthorized, nil)
	ErrPasswordChanged = apperrors.NewDomainError("PASSWORD_CHANGED",
		"User recently changed password! Please log in again", http.StatusUnauthorized, nil)
	ErrForbiddenRole = apperrors.NewDomainError("FORBIDDEN_ROLE",
		"You do not have permission to perform this action", http.StatusForbidden, nil)
	ErrPrivilegeEscalation = apperrors.NewDomainError("PRIVILEGE_ESCALATION",
		"You do not have permission to perform this action", http.StatusForbidden, nil)
	ErrInvalidCredentials = apperrors.NewDomainError("INVALID_CREDENTIALS",
		"Incorrect email or password", http.StatusUnauthorized, nil)
)
