package models

import (
	"github.com/google/uuid"
)

// Timeline is the engine-generated edit decision list for a project.
type Timeline struct {
	ProjectID        uuid.UUID         `json:"project_id"`
	BPM              float64           `json:"bpm"`
	BeatsPerCut      int               `json:"beats_per_cut"`
	TotalDurationSec float64           `json:"total_duration_sec"`
	Segments         []TimelineSegment `json:"segments"`
}

// TimelineSegment is one clip placement on the timeline.
type TimelineSegment struct {
	MediaID   uuid.UUID `json:"media_id"`
	Filename  string    `json:"filename"`
	StartSec  float64   `json:"start_sec"`
	EndSec    float64   `json:"end_sec"`
	StartBeat int       `json:"start_beat"`
	EndBeat   int       `json:"end_beat"`
}

// DurationSec returns the segment length in seconds.
func (s *TimelineSegment) DurationSec() float64 {
	return s.EndSec - s.StartSec
}

// SegmentWidthPercent returns the segment's width as a percentage of the
// full timeline, for the visualizer's proportional layout.
func (t *Timeline) SegmentWidthPercent(s TimelineSegment) float64 {
	if t.TotalDurationSec <= 0 {
		return 0
	}
	return s.DurationSec() / t.TotalDurationSec * 100
}

// CutIntervalSec returns the time between cuts implied by the BPM and
// beats-per-cut, or 0 when the BPM is unknown.
func (t *Timeline) CutIntervalSec() float64 {
	if t.BPM <= 0 {
		return 0
	}
	return 60.0 / t.BPM * float64(t.BeatsPerCut)
}

// GenerateTimelineRequest asks the engine to build a timeline from the
// project's analyzed audio and current media order.
type GenerateTimelineRequest struct {
	BeatsPerCut int         `json:"beats_per_cut"`
	MediaOrder  []uuid.UUID `json:"media_order,omitempty"`
}
