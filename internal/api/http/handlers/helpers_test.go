package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/uav-store/backend/internal/repository"
)

func TestParsePageClampsSizeBeforeOffset(t *testing.T) {
	var got repository.Page
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		got = parsePage(c)
		return c.SendStatus(http.StatusOK)
	})

	cases := map[string]repository.Page{
		"/?page=2&page_size=1000": {Limit: 100, Offset: 100},
		"/?page=3&page_size=10":   {Limit: 10, Offset: 20},
		"/?page=-1&page_size=abc": {Limit: defaultPageSize, Offset: 0},
	}
	for target, want := range cases {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		require.Equal(t, want, got, target)
	}
}
