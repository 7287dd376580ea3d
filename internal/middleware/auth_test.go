package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"beatstitch/internal/models"
)

func newAuthTestApp(t *testing.T) *fiber.App {
	t.Helper()

	app := fiber.New()
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	m := NewAuthMiddleware()

	// Test-only login endpoint that stores claims the way the OIDC
	// callback does.
	app.Post("/test-login", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		claims, _ := json.Marshal(models.User{Sub: "user-1", Email: "alice@example.com", Name: "Alice"})
		sess.Set(SessionUserKey, string(claims))
		sess.Set(SessionTokenKey, "tok-abc")
		return c.SendString("ok")
	})

	app.Get("/protected", m.RequireAuth, func(c fiber.Ctx) error {
		user := c.Locals("user").(*models.User)
		return c.SendString(user.Email + " " + EngineToken(c))
	})

	app.Get("/open", m.OptionalAuth, func(c fiber.Ctx) error {
		if user, ok := c.Locals("user").(*models.User); ok {
			return c.SendString("hello " + user.Name)
		}
		return c.SendString("anonymous")
	})

	return app
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	app := newAuthTestApp(t)

	req, _ := http.NewRequest("GET", "/protected", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	// Redirect().To() issues 303 See Other by default.
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireAuthLoadsSessionUser(t *testing.T) {
	app := newAuthTestApp(t)

	loginReq, _ := http.NewRequest("POST", "/test-login", nil)
	loginResp, err := app.Test(loginReq)
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	cookies := loginResp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie returned")
	}

	req, _ := http.NewRequest("GET", "/protected", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "alice@example.com tok-abc" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	app := newAuthTestApp(t)

	req, _ := http.NewRequest("GET", "/open", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "anonymous" {
		t.Errorf("unexpected body %q", body)
	}
}
