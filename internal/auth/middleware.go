package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/uav-store/backend/internal/domain"
	"github.com/uav-store/backend/internal/observability"
	apperrors "github.com/uav-store/backend/pkg/util"
)

const (
	identityKey = "auth_identity"
	tokenKey    = "auth_token"
)

// GateOptions tunes the access gate.
type GateOptions struct {
	CookieName string
	// SoftModeHonorsHeader lets IsLoggedIn read the Authorization header
	// before the cookie, like Protect does.
	SoftModeHonorsHeader bool
	Revocations          RevocationStore
}

// Gate validates bearer tokens and attaches the resolved account to the request.
type Gate struct {
	tokens   *TokenService
	resolver *Resolver
	opts     GateOptions
}

// NewGate constructs the access gate.
func NewGate(tokens *TokenService, resolver *Resolver, opts GateOptions) *Gate {
	if opts.CookieName == "" {
		opts.CookieName = "jwt"
	}
	return &Gate{tokens: tokens, resolver: resolver, opts: opts}
}

// Protect rejects the request unless it carries a valid, current token.
// The Authorization header wins over the cookie when both are present.
func (g *Gate) Protect(c *fiber.Ctx) error {
	raw := g.extract(c, true)
	if raw == "" {
		return ErrMissingToken
	}
	account, token, err := g.authenticate(c.UserContext(), raw)
	if err != nil {
		return err
	}
	attach(c, account, token)
	return c.Next()
}

// IsLoggedIn annotates the request with the caller's account when a cookie
// token is present and continues anonymously when it is not. A token that is
// present but fails any check rejects the request.
func (g *Gate) IsLoggedIn(c *fiber.Ctx) error {
	raw := g.extract(c, g.opts.SoftModeHonorsHeader)
	if raw == "" {
		return c.Next()
	}
	account, token, err := g.authenticate(c.UserContext(), raw)
	if err != nil {
		return err
	}
	attach(c, account, token)
	return c.Next()
}

func (g *Gate) authenticate(ctx context.Context, raw string) (*domain.Account, *VerifiedToken, error) {
	token, err := g.tokens.Verify(raw)
	if err != nil {
		return nil, nil, err
	}
	if g.opts.Revocations != nil && token.ID != "" {
		revoked, err := g.opts.Revocations.IsRevoked(ctx, token.ID)
		if err != nil {
			return nil, nil, apperrors.NewInternalError(err)
		}
		if revoked {
			return nil, nil, ErrInvalidToken
		}
	}
	account, err := g.resolver.Resolve(ctx, token.SubjectID)
	if err != nil {
		return nil, nil, err
	}
	if g.resolver.IsStale(account, token.IssuedAt) {
		return nil, nil, ErrPasswordChanged
	}
	return account, token, nil
}

func (g *Gate) extract(c *fiber.Ctx, withHeader bool) string {
	if withHeader {
		if token := bearerToken(c.Get(fiber.HeaderAuthorization)); token != "" {
			return token
		}
	}
	cookie := c.Cookies(g.opts.CookieName)
	if cookie == loggedOutMarker {
		return ""
	}
	return cookie
}

func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func attach(c *fiber.Ctx, account *domain.Account, token *VerifiedToken) {
	c.Locals(identityKey, account)
	c.Locals(tokenKey, token)
	c.Locals(observability.AccountIDLocal, account.ID)
}

// AccountFromContext retrieves the authenticated account.
func AccountFromContext(c *fiber.Ctx) (*domain.Account, bool) {
	account, ok := c.Locals(identityKey).(*domain.Account)
	return account, ok && account != nil
}

// TokenFromContext retrieves the verified token the account was resolved from.
func TokenFromContext(c *fiber.Ctx) (*VerifiedToken, bool) {
	token, ok := c.Locals(tokenKey).(*VerifiedToken)
	return token, ok && token != nil
}

// RevokeCurrent records the request's token in the revocation store. It is a
// no-op when no store is configured or the request carries no verifiable token.
func (g *Gate) RevokeCurrent(c *fiber.Ctx) error {
	if g.opts.Revocations == nil {
		return nil
	}
	raw := g.extract(c, true)
	if raw == "" {
		return nil
	}
	token, err := g.tokens.Verify(raw)
	if err != nil || token.ID == "" {
		return nil
	}
	return g.opts.Revocations.Revoke(c.UserContext(), token.ID, token.ExpiresAt)
}

// Revocable reports whether logout invalidates tokens server side.
func (g *Gate) Revocable() bool {
	return g.opts.Revocations != nil
}
