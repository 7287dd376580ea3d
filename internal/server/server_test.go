package server

import (
	"io"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/encryptcookie"
	"github.com/gofiber/fiber/v3/middleware/session"
)

func TestDeriveEncryptionKey(t *testing.T) {
	key := deriveEncryptionKey("some-session-secret")
	if key == "" {
		t.Fatal("empty key")
	}
	if key != deriveEncryptionKey("some-session-secret") {
		t.Error("key derivation is not deterministic")
	}
	if key == deriveEncryptionKey("another-secret") {
		t.Error("different secrets produced the same key")
	}
}

// Session values must survive the encryptcookie round trip across requests;
// the editor leans on this for view state and login claims.
func TestEncryptedSessionSurvivesReplay(t *testing.T) {
	app := fiber.New()

	// Same middleware order as production: encryptcookie, then session.
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: deriveEncryptionKey("test-secret-that-is-long-enough-for-production"),
	}))
	sessionMiddleware, _ := session.NewWithStore(session.Config{
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})
	app.Use(sessionMiddleware)

	app.Post("/set", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		sess.Set("view_state", `{"zoom":5}`)
		return c.SendString("ok")
	})
	app.Get("/get", func(c fiber.Ctx) error {
		sess := session.FromContext(c)
		if sess == nil {
			return c.Status(500).SendString("no session")
		}
		val, _ := sess.Get("view_state").(string)
		return c.SendString(val)
	})

	setReq, _ := http.NewRequest("POST", "/set", nil)
	setResp, err := app.Test(setReq)
	if err != nil {
		t.Fatalf("set request failed: %v", err)
	}
	if setResp.StatusCode != 200 {
		t.Fatalf("set: expected 200, got %d", setResp.StatusCode)
	}
	cookies := setResp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie returned")
	}

	// Replay the encrypted cookie twice; decryption must stay stable.
	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("GET", "/get", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("get request %d failed: %v", i+1, err)
		}
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != 200 {
			t.Fatalf("get %d: expected 200, got %d: %s", i+1, resp.StatusCode, body)
		}
		if string(body) != `{"zoom":5}` {
			t.Errorf("get %d: unexpected session value %q", i+1, body)
		}
		if fresh := resp.Cookies(); len(fresh) > 0 {
			cookies = fresh
		}
	}
}
