package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/config"
	"beatstitch/internal/engine"
	"beatstitch/internal/jobs"
	"beatstitch/internal/middleware"
	"beatstitch/internal/models"
	"beatstitch/internal/validation"
	"beatstitch/internal/viewstate"
)

// ProjectHandler handles project listing, creation, and the editor page.
type ProjectHandler struct {
	client   *engine.Client
	registry *jobs.Registry
	presets  *config.YAMLConfig
	cfg      *config.Config
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(client *engine.Client, registry *jobs.Registry, presets *config.YAMLConfig, cfg *config.Config) *ProjectHandler {
	return &ProjectHandler{client: client, registry: registry, presets: presets, cfg: cfg}
}

// clientFor returns an engine client carrying the request user's token.
func (h *ProjectHandler) clientFor(c fiber.Ctx) *engine.Client {
	return h.client.ForUser(middleware.EngineToken(c))
}

// Index renders the dashboard with the user's projects.
func (h *ProjectHandler) Index(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	projects, err := h.clientFor(c).ListProjects(c.Context())
	if err != nil {
		return engineError(err)
	}

	data := fiber.Map{
		"Projects": projects,
		"User":     user,
	}

	if c.Get("HX-Request") == "true" {
		return c.Render("partials/project_list", data, "")
	}
	return c.Render("dashboard", MergeBranding(data, h.cfg))
}

// New renders the project creation form.
func (h *ProjectHandler) New(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)
	data := fiber.Map{
		"User":    user,
		"Aspects": []string{models.AspectLandscape, models.AspectPortrait, models.AspectSquare},
	}
	return c.Render("project_new", MergeBranding(data, h.cfg))
}

// Create creates a project on the engine and redirects to its editor page.
func (h *ProjectHandler) Create(c fiber.Ctx) error {
	name := c.FormValue("name")
	if ok, msg := validation.ValidateProjectName(name); !ok {
		return htmxError(c, msg)
	}

	beatRule := c.FormValue("beat_rule")
	if ok, msg := validation.ValidateBeatRule(beatRule); !ok {
		return htmxError(c, msg)
	}

	project, err := h.clientFor(c).CreateProject(c.Context(), models.CreateProjectRequest{
		Name:        name,
		Description: c.FormValue("description"),
		BeatRule:    beatRule,
		AspectRatio: c.FormValue("aspect_ratio"),
	})
	if err != nil {
		if errors.Is(err, engine.ErrDuplicateName) {
			return htmxError(c, "A project with that name already exists")
		}
		return engineError(err)
	}

	target := "/projects/" + project.ID.String()
	if c.Get("HX-Request") == "true" {
		c.Set("HX-Redirect", target)
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect().To(target)
}

// Show renders the editor page: media bin, audio panel, timeline, and any
// render jobs for the project.
func (h *ProjectHandler) Show(c fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	client := h.clientFor(c)
	project, err := client.GetProject(c.Context(), projectID)
	if err != nil {
		return engineError(err)
	}

	media, err := client.ListMedia(c.Context(), projectID)
	if err != nil {
		return engineError(err)
	}

	state := loadViewState(c)
	if state.LastProjectID == projectID {
		media = viewstate.ApplyOrder(media, state.ClipOrder)
	} else {
		state.ClearClipOrder()
	}
	state.LastProjectID = projectID
	saveViewState(c, state)

	// Audio and timeline are optional; a fresh project has neither.
	audio, err := client.GetAudio(c.Context(), projectID)
	if err != nil && !errors.Is(err, engine.ErrAudioNotFound) {
		return engineError(err)
	}

	timeline, err := client.GetTimeline(c.Context(), projectID)
	if err != nil && !errors.Is(err, engine.ErrTimelineNotFound) {
		return engineError(err)
	}

	data := fiber.Map{
		"User":     user,
		"Project":  project,
		"Media":    media,
		"Audio":    audio,
		"Timeline": timeline,
		"Jobs":     h.registry.ForProject(projectID),
		"Zoom":     state.Zoom,
		"Aspects":  []string{models.AspectLandscape, models.AspectPortrait, models.AspectSquare},
	}
	if h.presets != nil {
		data["Presets"] = h.presets.Presets
	}
	return c.Render("project", MergeBranding(data, h.cfg))
}

// Update applies settings changes from the editor's settings form.
func (h *ProjectHandler) Update(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	if name := c.FormValue("name"); name != "" {
		if ok, msg := validation.ValidateProjectName(name); !ok {
			return htmxError(c, msg)
		}
	}
	if ok, msg := validation.ValidateBeatRule(c.FormValue("beat_rule")); !ok {
		return htmxError(c, msg)
	}

	project, err := h.clientFor(c).UpdateProject(c.Context(), projectID, models.UpdateProjectRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		BeatRule:    c.FormValue("beat_rule"),
		AspectRatio: c.FormValue("aspect_ratio"),
	})
	if err != nil {
		if errors.Is(err, engine.ErrDuplicateName) {
			return htmxError(c, "A project with that name already exists")
		}
		return engineError(err)
	}

	return c.Render("partials/project_settings", fiber.Map{
		"Project": project,
		"Aspects": []string{models.AspectLandscape, models.AspectPortrait, models.AspectSquare},
		"Saved":   true,
	}, "")
}

// Delete removes a project and sends the user back to the dashboard.
func (h *ProjectHandler) Delete(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	if err := h.clientFor(c).DeleteProject(c.Context(), projectID); err != nil {
		return engineError(err)
	}

	state := loadViewState(c)
	if state.LastProjectID == projectID {
		state.ClearClipOrder()
		state.LastProjectID = uuid.Nil
		saveViewState(c, state)
	}

	if c.Get("HX-Request") == "true" {
		c.Set("HX-Redirect", "/")
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect().To("/")
}
