package middleware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"beatstitch/internal/models"
)

// Session keys written by the auth handler and read here.
const (
	SessionUserKey  = "user"
	SessionTokenKey = "engine_token"
)

// AuthMiddleware handles user authentication via sessions. Identity is
// stored in the session as JSON claims; there is no local user store.
type AuthMiddleware struct{}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

// RequireAuth ensures the user is authenticated, redirecting to /login if not.
// The original URL is remembered so the callback can return the user to it.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Redirect().To("/login")
	}

	user := userFromSession(sess)
	if user == nil {
		if c.Method() == fiber.MethodGet && c.Get("HX-Request") != "true" {
			sess.Set("redirect_after_login", c.OriginalURL())
		}
		return c.Redirect().To("/login")
	}

	c.Locals("user", user)
	if token, ok := sess.Get(SessionTokenKey).(string); ok {
		c.Locals(SessionTokenKey, token)
	}
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return c.Next()
	}

	if user := userFromSession(sess); user != nil {
		c.Locals("user", user)
		if token, ok := sess.Get(SessionTokenKey).(string); ok {
			c.Locals(SessionTokenKey, token)
		}
	}
	return c.Next()
}

// userFromSession decodes the user claims stored at login. A corrupt or
// missing value counts as unauthenticated.
func userFromSession(sess *session.Middleware) *models.User {
	raw, ok := sess.Get(SessionUserKey).(string)
	if !ok || raw == "" {
		return nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Sub == "" {
		return nil
	}
	return &user
}

// EngineToken returns the per-user engine bearer token for the request, or
// the empty string when the service token should be used.
func EngineToken(c fiber.Ctx) string {
	token, _ := c.Locals(SessionTokenKey).(string)
	return token
}
