package api

import (
	"github.com/gofiber/fiber/v3"

	"beatstitch/internal/engine"
	"beatstitch/internal/jobs"
)

// HealthHandler reports the frontend's view of the system.
type HealthHandler struct {
	client   *engine.Client
	registry *jobs.Registry
}

// NewHealthHandler creates a new health API handler.
func NewHealthHandler(client *engine.Client, registry *jobs.Registry) *HealthHandler {
	return &HealthHandler{client: client, registry: registry}
}

// Get handles GET /api/health with the engine's reachability and the
// current tracked job counts.
func (h *HealthHandler) Get(c fiber.Ctx) error {
	engineStatus := "ok"
	if err := h.client.Healthy(c.Context()); err != nil {
		engineStatus = "unreachable"
	}

	return jsonSuccess(c, fiber.Map{
		"engine": engineStatus,
		"jobs":   h.registry.CountsByStatus(),
	})
}
