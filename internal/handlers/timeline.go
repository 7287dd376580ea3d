package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"beatstitch/internal/beatrule"
	"beatstitch/internal/config"
	"beatstitch/internal/engine"
	"beatstitch/internal/metrics"
	"beatstitch/internal/middleware"
	"beatstitch/internal/models"
	"beatstitch/internal/validation"
)

// TimelineHandler handles timeline generation and the zoomable visualizer.
type TimelineHandler struct {
	client *engine.Client
	cfg    *config.Config
}

// NewTimelineHandler creates a new timeline handler.
func NewTimelineHandler(client *engine.Client, cfg *config.Config) *TimelineHandler {
	return &TimelineHandler{client: client, cfg: cfg}
}

func (h *TimelineHandler) clientFor(c fiber.Ctx) *engine.Client {
	return h.client.ForUser(middleware.EngineToken(c))
}

func (h *TimelineHandler) renderTimeline(c fiber.Ctx, projectID uuid.UUID, timeline *models.Timeline) error {
	return c.Render("partials/timeline", fiber.Map{
		"ProjectID": projectID,
		"Timeline":  timeline,
		"Zoom":      loadViewState(c).Zoom,
	}, "")
}

// Generate parses the beat rule from the form and asks the engine for a
// fresh timeline.
func (h *TimelineHandler) Generate(c fiber.Ctx) error {
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

	state := loadViewState(c)
	req := models.GenerateTimelineRequest{BeatsPerCut: rule.BeatsPerCut}
	if state.LastProjectID == projectID {
		req.MediaOrder = state.ClipOrder
	}

	timeline, err := h.clientFor(c).GenerateTimeline(c.Context(), projectID, req)
	if err != nil {
		return engineError(err)
	}

	return h.renderTimeline(c, projectID, timeline)
}

// Show renders the timeline partial, used for refreshes after uploads or
// reorders.
func (h *TimelineHandler) Show(c fiber.Ctx) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	timeline, err := h.clientFor(c).GetTimeline(c.Context(), projectID)
	if err != nil && !errors.Is(err, engine.ErrTimelineNotFound) {
		return engineError(err)
	}

	return h.renderTimeline(c, projectID, timeline)
}

// ZoomIn steps the visualizer zoom up one level and re-renders.
func (h *TimelineHandler) ZoomIn(c fiber.Ctx) error {
	return h.zoom(c, +1)
}

// ZoomOut steps the visualizer zoom down one level and re-renders.
func (h *TimelineHandler) ZoomOut(c fiber.Ctx) error {
	return h.zoom(c, -1)
}

func (h *TimelineHandler) zoom(c fiber.Ctx, delta int) error {
	projectID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid project id")
	}

	state := loadViewState(c)
	state.SetZoom(state.Zoom + delta)
	saveViewState(c, state)

	timeline, err := h.clientFor(c).GetTimeline(c.Context(), projectID)
	if err != nil && !errors.Is(err, engine.ErrTimelineNotFound) {
		return engineError(err)
	}

	return h.renderTimeline(c, projectID, timeline)
}

// recordRuleOutcome counts whether a parse matched a pattern or fell back
// to the default cut rate.
func recordRuleOutcome(rule beatrule.Rule) {
	if rule.IsDefault {
		metrics.RecordRuleParse("default")
		return
	}
	metrics.RecordRuleParse("matched")
}
