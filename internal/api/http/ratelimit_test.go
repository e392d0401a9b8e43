package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uav-store/backend/internal/config"
)

func TestAuthRateLimit(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), nil, MiddlewareOptions{})
	app.Post("/login", AuthRateLimit(config.RateLimitConfig{
		AuthRequests:  2,
		AuthWindowSec: 60,
		AuthBurst:     2,
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	var last *http.Response
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		last = resp
	}

	require.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
	require.NotEmpty(t, last.Header.Get("Retry-After"))
}

func TestAuthRateLimitDisabled(t *testing.T) {
	app := fiber.New()
	app.Get("/", AuthRateLimit(config.RateLimitConfig{}), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func loginAdmitted(t *testing.T, app *fiber.App, attempts int) int {
	t.Helper()
	admitted := 0
	for i := 0; i < attempts; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("10.0.0.%d", i+1))
		resp, err := app.Test(req)
		require.NoError(t, err)
		if resp.StatusCode == http.StatusOK {
			admitted++
		}
	}
	return admitted
}

func newLimitedLoginApp(appCfg config.AppConfig) *fiber.App {
	app := fiber.New(ServerConfig(appCfg))
	RegisterMiddlewares(app, zap.NewNop(), nil, MiddlewareOptions{})
	app.Post("/login", AuthRateLimit(config.RateLimitConfig{
		AuthRequests:  2,
		AuthWindowSec: 60,
		AuthBurst:     2,
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestAuthRateLimitIgnoresForwardedForWithoutTrustedProxies(t *testing.T) {
	app := newLimitedLoginApp(config.AppConfig{})
	require.Equal(t, 2, loginAdmitted(t, app, 20))
}

func TestAuthRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	app := newLimitedLoginApp(config.AppConfig{TrustedProxies: []string{"192.0.2.10"}})
	require.Equal(t, 2, loginAdmitted(t, app, 20))
}

func TestAuthRateLimitHonorsForwardedForFromTrustedProxy(t *testing.T) {
	// app.Test connections report 0.0.0.0 as the peer.
	app := newLimitedLoginApp(config.AppConfig{TrustedProxies: []string{"0.0.0.0"}})
	require.Equal(t, 5, loginAdmitted(t, app, 5))
}
