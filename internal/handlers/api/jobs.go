package api

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/engine"
	"beatstitch/internal/jobs"
	"beatstitch/internal/middleware"
	"beatstitch/internal/models"
)

// staleAfter marks a tracked job as stale when the watcher has not
// refreshed it within two poll intervals' worth of slack.
const staleAfter = 15 * time.Second

// JobsHandler exposes render job status over JSON.
type JobsHandler struct {
	client   *engine.Client
	registry *jobs.Registry
}

// NewJobsHandler creates a new jobs API handler.
func NewJobsHandler(client *engine.Client, registry *jobs.Registry) *JobsHandler {
	return &JobsHandler{client: client, registry: registry}
}

// Get handles GET /api/jobs/:id. Tracked jobs answer from the watcher's
// registry without an engine round trip.
func (h *JobsHandler) Get(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid job id")
	}

	if tracked, ok := h.registry.Get(jobID); ok {
		return jsonSuccess(c, models.JobStatusResponse{
			Job:      tracked.Job,
			Stale:    !tracked.Job.IsTerminal() && time.Since(tracked.PolledAt) > staleAfter,
			PolledAt: tracked.PolledAt.Format(time.RFC3339),
		})
	}

	job, err := h.client.ForUser(middleware.EngineToken(c)).JobStatus(c.Context(), jobID)
	if err != nil {
		return engineJSONError(c, err)
	}
	return jsonSuccess(c, models.JobStatusResponse{
		Job:      job,
		PolledAt: time.Now().Format(time.RFC3339),
	})
}

// Counts handles GET /api/jobs. It summarizes tracked jobs by status, which
// is also what the Prometheus collector exports.
func (h *JobsHandler) Counts(c fiber.Ctx) error {
	return jsonSuccess(c, h.registry.CountsByStatus())
}
