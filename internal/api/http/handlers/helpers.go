package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/uav-store/backend/internal/auth"
	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/repository"
	apperrors "github.com/uav-store/backend/pkg/util"
)

const defaultPageSize = 20

// parseBody decodes the request body into out or fails with a validation error.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"body": err.Error()})
	}
	return nil
}

// parsePage reads page and page_size query parameters.
func parsePage(c *fiber.Ctx) repository.Page {
	return repository.PageOf(parseInt(c.Query("page"), 1), parseInt(c.Query("page_size"), defaultPageSize))
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

// currentAccount returns the account attached by the access gate. Routes
// behind Protect always have one.
func currentAccount(c *fiber.Ctx) (*domain.Account, error) {
	account, ok := auth.AccountFromContext(c)
	if !ok {
		return nil, auth.ErrMissingToken
	}
	return account, nil
}
