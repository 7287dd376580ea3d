package handlers

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"beatstitch/internal/viewstate"
)

// loadViewState reads the session's UI state, falling back to defaults when
// the session is unavailable or the stored value is malformed.
func loadViewState(c fiber.Ctx) viewstate.State {
	sess := session.FromContext(c)
	if sess == nil {
		return viewstate.Default()
	}
	raw, _ := sess.Get(viewstate.SessionKey).(string)
	return viewstate.Decode(raw)
}

// saveViewState writes the UI state back to the session. A missing session
// is not an error; the state is simply dropped.
func saveViewState(c fiber.Ctx, s viewstate.State) {
	sess := session.FromContext(c)
	if sess == nil {
		return
	}
	sess.Set(viewstate.SessionKey, s.Encode())
}
