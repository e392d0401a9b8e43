package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/uav-store/backend/internal/domain"
	apperrors "github.com/uav-store/backend/pkg/util"
)

type fakeAccounts struct {
	byID map[string]*domain.Account
	err  error
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*domain.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	acc, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return acc, nil
}

type memoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	err     error
}

func newMemoryRevocations() *memoryRevocations {
	return &memoryRevocations{revoked: map[string]time.Time{}}
}

func (m *memoryRevocations) Revoke(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[tokenID] = until
	return nil
}

func (m *memoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[tokenID]
	return ok, nil
}

var errStoreDown = errors.New("connection refused")

// newTestApp mounts handlers in front of an endpoint that echoes the
// attached account id, or "anonymous".
func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": fiber.Map{
				"code":    de.Code,
				"message": de.Message,
			}})
		},
	})
	chain := append(handlers, func(c *fiber.Ctx) error {
		if acc, ok := AccountFromContext(c); ok {
			return c.SendString(acc.ID)
		}
		return c.SendString("anonymous")
	})
	app.All("/", chain...)
	return app
}

type testResult struct {
	Status int
	Body   string
	Code   string
}

func do(t *testing.T, app *fiber.App, req *http.Request) testResult {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	res := testResult{Status: resp.StatusCode, Body: string(raw)}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		res.Code = envelope.Error.Code
	}
	return res
}
