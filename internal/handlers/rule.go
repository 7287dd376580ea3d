package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"beatstitch/internal/beatrule"
	"beatstitch/internal/config"
	"beatstitch/internal/models"
	"beatstitch/internal/validation"
)

// RuleHandler serves the live beat-rule preview shown under the rule input.
type RuleHandler struct {
	cfg *config.Config
}

// NewRuleHandler creates a new rule handler.
func NewRuleHandler(cfg *config.Config) *RuleHandler {
	return &RuleHandler{cfg: cfg}
}

// Preview parses the typed rule text and renders the preview partial.
// Parsing is local and total, so this endpoint never touches the engine.
func (h *RuleHandler) Preview(c fiber.Ctx) error {
	input := c.Query("rule")
	if ok, msg := validation.ValidateBeatRule(input); !ok {
		return htmxError(c, msg)
	}

	rule := beatrule.Parse(input)
	recordRuleOutcome(rule)

	// The editor passes the detected BPM along so the preview can show the
	// resulting cut interval in seconds.
	bpm, _ := strconv.ParseFloat(c.Query("bpm"), 64)

	return c.Render("partials/rule_preview", fiber.Map{
		"Preview": models.NewRulePreview(input, rule, bpm),
	}, "")
}
