package models

import "beatstitch/internal/beatrule"

// RulePreviewResponse is returned by the beat-rule preview endpoint.
type RulePreviewResponse struct {
	Input          string  `json:"input"`
	BeatsPerCut    int     `json:"beats_per_cut"`
	IsDefault      bool    `json:"is_default"`
	MatchedPattern string  `json:"matched_pattern,omitempty"`
	CutIntervalSec float64 `json:"cut_interval_sec,omitempty"` // only when the project BPM is known
}

// NewRulePreview builds a preview response from a parse result. When bpm is
// positive the cut interval in seconds is included.
func NewRulePreview(input string, rule beatrule.Rule, bpm float64) RulePreviewResponse {
	resp := RulePreviewResponse{
		Input:          input,
		BeatsPerCut:    rule.BeatsPerCut,
		IsDefault:      rule.IsDefault,
		MatchedPattern: rule.MatchedPattern,
	}
	if bpm > 0 {
		resp.CutIntervalSec = 60.0 / bpm * float64(rule.BeatsPerCut)
	}
	return resp
}

// JobStatusResponse is the polling payload consumed by the status panels.
type JobStatusResponse struct {
	Job      *RenderJob `json:"job"`
	Stale    bool       `json:"stale"`     // watcher has not refreshed recently
	PolledAt string     `json:"polled_at"` // RFC3339
}
