package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/repository"
	apperrors "github.com/uav-store/backend/pkg/util"
)

var pageAll = repository.Page{Limit: 100}

func TestCustomerCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newFakeAccountRepo()
	svc := NewCustomerService(repo, NewAuthService(testAuthConfig, repo))

	created, err := svc.Create(ctx, signupInput("bob@example.com"))
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, created.Role)

	name := "  Robert "
	updated, err := svc.Update(ctx, created.ID, CustomerUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Robert", updated.Name)
	require.Equal(t, domain.RoleUser, updated.Role)

	bad := "not-an-email"
	_, err = svc.Update(ctx, created.ID, CustomerUpdate{Email: &bad})
	require.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	all, err := svc.List(ctx, pageAll)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
	require.Equal(t, http.StatusNotFound, apperrors.ToDomainError(svc.Delete(ctx, created.ID)).HTTPStatus)
}
