package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/beatrule"
	"beatstitch/internal/config"
	"beatstitch/internal/engine"
	"beatstitch/internal/jobs"
	"beatstitch/internal/middleware"
	"beatstitch/internal/models"
	"beatstitch/internal/validation"
)

// RenderHandler handles render submission, status polling, cancellation,
// and output download.
type RenderHandler struct {
	client   *engine.Client
	registry *jobs.Registry
	presets  *config.YAMLConfig
	cfg      *config.Config
}

// NewRenderHandler creates a new render handler.
func NewRenderHandler(client *engine.Client, registry *jobs.Registry, presets *config.YAMLConfig, cfg *config.Config) *RenderHandler {
	return &RenderHandler{client: client, registry: registry, presets: presets, cfg: cfg}
}

func (h *RenderHandler) clientFor(c fiber.Ctx) *engine.Client {
	return h.client.ForUser(middleware.EngineToken(c))
}

func (h *RenderHandler) renderJobStatus(c fiber.Ctx, job *models.RenderJob) error {
	return c.Render("partials/job_status", fiber.Map{
		"Job": job,
	}, "")
}

// Submit starts a render for the project. The job is tracked so the
// background watcher can poll it and notify the user when it finishes.
func (h *RenderHandler) Submit(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	ruleText := c.FormValue("beat_rule")
	if ok, msg := validation.ValidateBeatRule(ruleText); !ok {
		return htmxError(c, msg)
	}
	rule := beatrule.Parse(ruleText)
	recordRuleOutcome(rule)

	preset := c.FormValue("preset")
	if preset != "" && h.presets != nil && h.presets.GetPresetByName(preset) == nil {
		return htmxError(c, "Unknown render preset: "+preset)
	}

	client := h.clientFor(c)
	project, err := client.GetProject(c.Context(), projectID)
	if err != nil {
		return engineError(err)
	}

	job, err := client.SubmitRender(c.Context(), projectID, models.SubmitRenderRequest{
		BeatsPerCut: rule.BeatsPerCut,
		Preset:      preset,
	})
	if err != nil {
		return engineError(err)
	}

	h.registry.Track(job, project.Name, user.Email, middleware.EngineToken(c))

	return h.renderJobStatus(c, job)
}

// Status renders the job status partial. Tracked jobs are served from the
// watcher's registry; unknown jobs fall back to a direct engine query.
func (h *RenderHandler) Status(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job id")
	}

	if tracked, ok := h.registry.Get(jobID); ok {
		return h.renderJobStatus(c, tracked.Job)
	}

	job, err := h.clientFor(c).JobStatus(c.Context(), jobID)
	if err != nil {
		return engineError(err)
	}
	return h.renderJobStatus(c, job)
}

// Cancel aborts a queued or processing render.
func (h *RenderHandler) Cancel(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job id")
	}

	client := h.clientFor(c)
	if err := client.CancelJob(c.Context(), jobID); err != nil {
		return engineError(err)
	}

	job, err := client.JobStatus(c.Context(), jobID)
	if err != nil {
		if errors.Is(err, engine.ErrJobNotFound) {
			return h.renderJobStatus(c, &models.RenderJob{ID: jobID, Status: models.JobCancelled})
		}
		return engineError(err)
	}
	h.registry.Update(job)

	return h.renderJobStatus(c, job)
}

// Download streams the finished render's output file to the browser.
func (h *RenderHandler) Download(c fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid job id")
	}

	body, contentType, length, err := h.clientFor(c).Download(c.Context(), "/api/jobs/"+jobID.String()+"/output")
	if err != nil {
		return engineError(err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="beatstitch-`+jobID.String()+`.mp4"`)
	if length > 0 {
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(length, 10))
	}
	return c.SendStream(body)
}
