package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const loggedOutMarker = "loggedout"

// CookieSettings shapes the session cookie.
type CookieSettings struct {
	Name string
	TTL  time.Duration
}

// SessionCookie builds the cookie carrying value.
func (s CookieSettings) SessionCookie(c *fiber.Ctx, value string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(s.TTL),
		HTTPOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: fiber.CookieSameSiteNoneMode,
	}
}

// ExpiredSessionCookie builds the already-expired marker used on logout.
func (s CookieSettings) ExpiredSessionCookie(c *fiber.Ctx) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     s.Name,
		Value:    loggedOutMarker,
		Path:     "/",
		Expires:  time.Now().Add(-time.Second),
		HTTPOnly: true,
		Secure:   isSecureRequest(c),
		SameSite: fiber.CookieSameSiteNoneMode,
	}
}

func isSecureRequest(c *fiber.Ctx) bool {
	if c.Protocol() == "https" {
		return true
	}
	return strings.EqualFold(c.Get(fiber.HeaderXForwardedProto), "https")
}
