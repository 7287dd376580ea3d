package handlers

import (
	"github.com/gofiber/fiber/v3"

	"beatstitch/internal/config"
	"beatstitch/internal/engine"
	"beatstitch/internal/middleware"
	"beatstitch/internal/models"
)

// ProfileHandler handles the user profile page.
type ProfileHandler struct {
	client *engine.Client
	cfg    *config.Config
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(client *engine.Client, cfg *config.Config) *ProfileHandler {
	return &ProfileHandler{client: client, cfg: cfg}
}

// Show renders the user's profile page with their projects.
func (h *ProfileHandler) Show(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return c.Redirect().To("/login")
	}

	projects, err := h.client.ForUser(middleware.EngineToken(c)).ListProjects(c.Context())
	if err != nil {
		return engineError(err)
	}

	data := fiber.Map{
		"User":     user,
		"Projects": projects,
	}
	return c.Render("profile", MergeBranding(data, h.cfg))
}
