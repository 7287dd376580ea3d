package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"beatstitch/internal/beatrule"
	"beatstitch/internal/metrics"
	"beatstitch/internal/models"
	"beatstitch/internal/validation"
)

// RuleHandler exposes the beat-rule parser as a JSON endpoint.
type RuleHandler struct{}

// NewRuleHandler creates a new rule API handler.
func NewRuleHandler() *RuleHandler {
	return &RuleHandler{}
}

// Preview handles GET /api/rules/preview?rule=...&bpm=...
// Parsing is total: any input yields a valid beats-per-cut value, falling
// back to the default cut rate when nothing matches.
func (h *RuleHandler) Preview(c fiber.Ctx) error {
	input := c.Query("rule")
	if ok, msg := validation.ValidateBeatRule(input); !ok {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	rule := beatrule.Parse(input)
	if rule.IsDefault {
		metrics.RecordRuleParse("default")
	} else {
		metrics.RecordRuleParse("matched")
	}

	bpm, _ := strconv.ParseFloat(c.Query("bpm"), 64)
	return jsonSuccess(c, models.NewRulePreview(input, rule, bpm))
}
