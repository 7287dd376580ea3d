package handlers

import (
	"github.com/gofiber/fiber/v3"

	"beatstitch/internal/engine"
)

// ProbeHandler handles Kubernetes health probe endpoints.
type ProbeHandler struct {
	client *engine.Client
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(client *engine.Client) *ProbeHandler {
	return &ProbeHandler{client: client}
}

// Liveness handles the /healthz endpoint for Kubernetes liveness probes.
// Returns 200 OK if the application is running.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
	})
}

// Readiness handles the /readyz endpoint for Kubernetes readiness probes.
// Returns 200 OK if the application can serve traffic (engine is reachable).
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if err := h.client.Healthy(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "engine unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
	})
}
