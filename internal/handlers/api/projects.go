package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/engine"
	"beatstitch/internal/middleware"
	"beatstitch/internal/models"
	"beatstitch/internal/validation"
)

// ProjectsHandler exposes project CRUD as JSON for scripted clients.
type ProjectsHandler struct {
	client *engine.Client
}

// NewProjectsHandler creates a new projects API handler.
func NewProjectsHandler(client *engine.Client) *ProjectsHandler {
	return &ProjectsHandler{client: client}
}

func (h *ProjectsHandler) clientFor(c fiber.Ctx) *engine.Client {
	return h.client.ForUser(middleware.EngineToken(c))
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(c fiber.Ctx) error {
	projects, err := h.clientFor(c).ListProjects(c.Context())
	if err != nil {
		return engineJSONError(c, err)
	}
	return jsonSuccess(c, projects)
}

// Get handles GET /api/projects/:id.
func (h *ProjectsHandler) Get(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid project id")
	}

	project, err := h.clientFor(c).GetProject(c.Context(), projectID)
	if err != nil {
		return engineJSONError(c, err)
	}
	return jsonSuccess(c, project)
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(c fiber.Ctx) error {
	var req models.CreateProjectRequest
	if err := c.Bind().JSON(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if ok, msg := validation.ValidateProjectName(req.Name); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}
	if ok, msg := validation.ValidateBeatRule(req.BeatRule); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	project, err := h.clientFor(c).CreateProject(c.Context(), req)
	if err != nil {
		return engineJSONError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   project,
	})
}

// Delete handles DELETE /api/projects/:id.
func (h *ProjectsHandler) Delete(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid project id")
	}

	if err := h.clientFor(c).DeleteProject(c.Context(), projectID); err != nil {
		return engineJSONError(c, err)
	}
	return jsonSuccess(c, fiber.Map{"deleted": projectID})
}

// engineJSONError maps engine client errors onto the JSON envelope.
func engineJSONError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrProjectNotFound),
		errors.Is(err, engine.ErrMediaNotFound),
		errors.Is(err, engine.ErrAudioNotFound),
		errors.Is(err, engine.ErrTimelineNotFound),
		errors.Is(err, engine.ErrJobNotFound):
		return jsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrDuplicateName):
		return jsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrUnauthorized):
		return jsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, engine.ErrUnavailable):
		return jsonError(c, fiber.StatusBadGateway, "render engine unavailable")
	}
	return jsonError(c, fiber.StatusInternalServerError, "internal error")
}
