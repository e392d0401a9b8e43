package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/uav-store/backend/internal/domain"
)

func TestRestrictTo(t *testing.T) {
	f := newGateFixture()
	gate := f.gate(GateOptions{})
	app := newTestApp(gate.Protect, RestrictTo(domain.RoleAdmin))

	t.Run("user is rejected", func(t *testing.T) {
		res := do(t, app, request("Bearer "+f.token(t, "u1"), ""))
		require.Equal(t, http.StatusForbidden, res.Status)
		require.Equal(t, "FORBIDDEN_ROLE", res.Code)
	})

	t.Run("admin is admitted", func(t *testing.T) {
		res := do(t, app, request("Bearer "+f.token(t, "a1"), ""))
		require.Equal(t, http.StatusOK, res.Status)
		require.Equal(t, "a1", res.Body)
	})
}

func TestRestrictToMultipleRoles(t *testing.T) {
	f := newGateFixture()
	f.accounts.byID["s1"] = &domain.Account{ID: "s1", Role: domain.RoleShipper}
	app := newTestApp(f.gate(GateOptions{}).Protect, RestrictTo(domain.RoleShipper, domain.RoleAdmin))

	for subject, want := range map[string]int{"s1": http.StatusOK, "a1": http.StatusOK, "u1": http.StatusForbidden} {
		res := do(t, app, request("Bearer "+f.token(t, subject), ""))
		require.Equal(t, want, res.Status, subject)
	}
}

func TestRestrictToWithoutIdentityFailsClosed(t *testing.T) {
	app := newTestApp(RestrictTo(domain.RoleUser, domain.RoleShipper, domain.RoleAdmin))

	res := do(t, app, request("", ""))
	require.Equal(t, http.StatusForbidden, res.Status)
	require.Equal(t, "FORBIDDEN_ROLE", res.Code)
}

func TestRestrictToAfterSoftModeAnonymous(t *testing.T) {
	f := newGateFixture()
	app := newTestApp(f.gate(GateOptions{}).IsLoggedIn, RestrictTo(domain.RoleUser))

	res := do(t, app, request("", ""))
	require.Equal(t, http.StatusForbidden, res.Status)
}

func TestPreventPrivilegeEscalation(t *testing.T) {
	app := newTestApp(PreventPrivilegeEscalation())

	post := func(contentType, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if contentType != "" {
			req.Header.Set(fiber.HeaderContentType, contentType)
		}
		return req
	}

	cases := []struct {
		name        string
		contentType string
		body        string
		status      int
	}{
		{"no role field", fiber.MIMEApplicationJSON, `{"email":"a@b.c","password":"pw"}`, http.StatusOK},
		{"default role", fiber.MIMEApplicationJSON, `{"email":"a@b.c","role":"user"}`, http.StatusOK},
		{"null role", fiber.MIMEApplicationJSON, `{"role":null}`, http.StatusOK},
		{"empty role", fiber.MIMEApplicationJSON, `{"role":""}`, http.StatusOK},
		{"empty body", "", "", http.StatusOK},
		{"admin role", fiber.MIMEApplicationJSON, `{"email":"a@b.c","role":"admin"}`, http.StatusForbidden},
		{"shipper role", fiber.MIMEApplicationJSON, `{"role":"shipper"}`, http.StatusForbidden},
		{"unknown role", fiber.MIMEApplicationJSON, `{"role":"superuser"}`, http.StatusForbidden},
		{"non string role", fiber.MIMEApplicationJSON, `{"role":["admin"]}`, http.StatusForbidden},
		{"case variant", fiber.MIMEApplicationJSON, `{"role":"User"}`, http.StatusForbidden},
		{"json with charset", "application/json; charset=utf-8", `{"role":"admin"}`, http.StatusForbidden},
		{"text json admin", "text/json", `{"role":"admin"}`, http.StatusForbidden},
		{"upper case json admin", "Application/JSON", `{"role":"admin"}`, http.StatusForbidden},
		{"vendor json admin", "application/vnd.api+json", `{"role":"admin"}`, http.StatusForbidden},
		{"text json default", "text/json", `{"role":"user"}`, http.StatusOK},
		{"form admin", fiber.MIMEApplicationForm, "email=a%40b.c&role=admin", http.StatusForbidden},
		{"form default", fiber.MIMEApplicationForm, "email=a%40b.c&role=user", http.StatusOK},
		{"malformed json", fiber.MIMEApplicationJSON, `{"role":`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := do(t, app, post(tc.contentType, tc.body))
			require.Equal(t, tc.status, res.Status)
			if tc.status == http.StatusForbidden {
				require.Equal(t, "PRIVILEGE_ESCALATION", res.Code)
			}
		})
	}
}

func TestSessionCookies(t *testing.T) {
	settings := CookieSettings{Name: "jwt", TTL: 24 * time.Hour}
	app := fiber.New()
	app.Get("/login", func(c *fiber.Ctx) error {
		c.Cookie(settings.SessionCookie(c, "tok"))
		return nil
	})
	app.Get("/logout", func(c *fiber.Ctx) error {
		c.Cookie(settings.ExpiredSessionCookie(c))
		return nil
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/login", nil), -1)
	require.NoError(t, err)
	header := resp.Header.Get("Set-Cookie")
	require.Contains(t, header, "jwt=tok")
	require.Contains(t, strings.ToLower(header), "httponly")
	require.Contains(t, strings.ToLower(header), "samesite=none")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/logout", nil), -1)
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, loggedOutMarker, cookies[0].Value)
	require.True(t, cookies[0].Expires.Before(time.Now()))
}
