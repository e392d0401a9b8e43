package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uav-store/backend/internal/auth"
	"github.com/uav-store/backend/internal/domain"
	apperrors "github.com/uav-store/backend/pkg/util"
)

func signupInput(email string) SignupInput {
	return SignupInput{Name: "Ada", Email: email, Password: "correct-horse", PasswordConfirm: "correct-horse"}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testAuthConfig, newFakeAccountRepo())

	account, token, err := svc.Signup(ctx, signupInput("Ada@Example.com"))
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, account.Role)
	require.Equal(t, "ada@example.com", account.Email)
	require.NotEqual(t, "correct-horse", account.PasswordHash)

	verified, err := svc.Tokens().Verify(token.Value)
	require.NoError(t, err)
	require.Equal(t, account.ID, verified.SubjectID)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, _, err := svc.Signup(ctx, signupInput("ada@example.com"))
		de := apperrors.ToDomainError(err)
		require.Equal(t, http.StatusConflict, de.HTTPStatus)
	})

	t.Run("invalid payload", func(t *testing.T) {
		_, _, err := svc.Signup(ctx, SignupInput{Email: "nope", Password: "short", PasswordConfirm: "other"})
		de := apperrors.ToDomainError(err)
		require.Equal(t, "VALIDATION_FAILED", de.Code)
		require.Contains(t, de.Details, "name")
		require.Contains(t, de.Details, "email")
		require.Contains(t, de.Details, "password")
		require.Contains(t, de.Details, "password_confirm")
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testAuthConfig, newFakeAccountRepo())
	created, _, err := svc.Signup(ctx, signupInput("ada@example.com"))
	require.NoError(t, err)

	account, token, err := svc.Login(ctx, "ADA@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, created.ID, account.ID)
	require.NotEmpty(t, token.Value)

	_, _, wrongPassword := svc.Login(ctx, "ada@example.com", "wrong-password")
	_, _, unknownEmail := svc.Login(ctx, "ghost@example.com", "correct-horse")
	require.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, auth.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())

	_, _, missing := svc.Login(ctx, "", "")
	require.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(missing).HTTPStatus)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepo()
	svc := NewAuthService(testAuthConfig, repo)
	account, _, err := svc.Signup(ctx, signupInput("ada@example.com"))
	require.NoError(t, err)

	t.Run("wrong current password", func(t *testing.T) {
		_, err := svc.ChangePassword(ctx, account, "nope", "new-password", "new-password")
		require.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		_, err := svc.ChangePassword(ctx, account, "correct-horse", "new-password", "other-password")
		require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
	})

	t.Run("rotates password and reissues", func(t *testing.T) {
		token, err := svc.ChangePassword(ctx, account, "correct-horse", "new-password", "new-password")
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.PasswordChangedAt)
		require.False(t, stored.PasswordChangedAfter(token.IssuedAt), "fresh token must not be stale")
		require.True(t, stored.PasswordChangedAfter(token.IssuedAt.Add(-3*time.Second)), "older tokens must be stale")

		_, _, err = svc.Login(ctx, "ada@example.com", "new-password")
		require.NoError(t, err)
		_, _, err = svc.Login(ctx, "ada@example.com", "correct-horse")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("token from the previous second is stale", func(t *testing.T) {
		changed := time.Now()
		svc.now = func() time.Time { return changed }
		token, err := svc.ChangePassword(ctx, account, "new-password", "newer-password", "newer-password")
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, account.ID)
		require.NoError(t, err)
		require.True(t, stored.PasswordChangedAt.Equal(changed.Truncate(time.Second)))
		require.True(t, stored.PasswordChangedAfter(changed.Add(-time.Second)))
		require.False(t, stored.PasswordChangedAfter(token.IssuedAt))
	})
}

func TestSetRole(t *testing.T) {
	ctx := context.Background()
	svc := NewAuthService(testAuthConfig, newFakeAccountRepo())
	account, _, err := svc.Signup(ctx, signupInput("ada@example.com"))
	require.NoError(t, err)

	updated, err := svc.SetRole(ctx, account.ID, "shipper")
	require.NoError(t, err)
	require.Equal(t, domain.RoleShipper, updated.Role)

	_, err = svc.SetRole(ctx, account.ID, "superuser")
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.SetRole(ctx, "00000000-0000-0000-0000-000000000000", "admin")
	require.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}
