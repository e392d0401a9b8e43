package auth

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/uav-store/backend/internal/domain"
	apperrors "github.com/uav-store/backend/pkg/util"
)

// RestrictTo admits only accounts holding one of the allowed roles. A request
// without an attached account is rejected the same way.
func RestrictTo(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		account, ok := AccountFromContext(c)
		if !ok {
			return ErrForbiddenRole
		}
		if _, exists := allowedSet[account.Role]; !exists {
			return ErrForbiddenRole
		}
		return c.Next()
	}
}

// PreventPrivilegeEscalation guards account-creating endpoints: a payload may
// omit the role or ask for the default one, anything else is rejected.
func PreventPrivilegeEscalation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(strings.TrimSpace(string(body))) == 0 {
			return c.Next()
		}

		if !isJSONContent(c.Get(fiber.HeaderContentType)) {
			return checkRole(c, c.FormValue("role"))
		}

		var payload map[string]json.RawMessage
		if err := json.Unmarshal(body, &payload); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		raw, present := payload["role"]
		if !present {
			return c.Next()
		}

		var role string
		if err := json.Unmarshal(raw, &role); err != nil {
			return ErrPrivilegeEscalation
		}
		return checkRole(c, role)
	}
}

// isJSONContent mirrors how BodyParser decides to decode a body as JSON.
func isJSONContent(contentType string) bool {
	ctype := utils.ParseVendorSpecificContentType(strings.ToLower(contentType))
	if end := strings.IndexByte(ctype, ';'); end != -1 {
		ctype = ctype[:end]
	}
	return strings.HasSuffix(strings.TrimSpace(ctype), "json")
}

func checkRole(c *fiber.Ctx, role string) error {
	if role == "" || domain.Role(role) == domain.DefaultRole {
		return c.Next()
	}
	return ErrPrivilegeEscalation
}
