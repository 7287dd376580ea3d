package handlers

import (
	"errors"
	"html"

	"github.com/gofiber/fiber/v3"

	"beatstitch/internal/engine"
)

// htmxError returns an error message as HTML that HTMX will display.
// Uses 200 status so HTMX processes the swap (HTMX ignores non-2xx by default).
func htmxError(c fiber.Ctx, message string) error {
	return c.SendString(
		`<div class="p-3 rounded-lg bg-red-50 dark:bg-red-900/30 text-red-700 dark:text-red-300 text-sm">` + html.EscapeString(message) + `</div>`,
	)
}

// engineError translates engine client errors into fiber errors with
// appropriate status codes. Unknown errors pass through to the global
// error handler as 500s.
func engineError(err error) error {
	switch {
	case errors.Is(err, engine.ErrProjectNotFound),
		errors.Is(err, engine.ErrMediaNotFound),
		errors.Is(err, engine.ErrAudioNotFound),
		errors.Is(err, engine.ErrTimelineNotFound),
		errors.Is(err, engine.ErrJobNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrDuplicateName):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, engine.ErrUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "render engine unavailable")
	}
	return err
}
