package models

import (
	"time"

	"github.com/google/uuid"
)

// Render job status constants, mirroring the engine API.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
	JobCancelled  = "cancelled"
)

// RenderJob represents an asynchronous render on the engine.
type RenderJob struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"` // 0-100
	OutputURL   string     `json:"output_url,omitempty"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// IsTerminal reports whether the job will receive no further updates.
func (j *RenderJob) IsTerminal() bool {
	switch j.Status {
	case JobCompleted, JobFailed, JobCancelled:
		return true
	}
	return false
}

// SubmitRenderRequest is the payload for starting a render.
type SubmitRenderRequest struct {
	BeatsPerCut int    `json:"beats_per_cut"`
	Preset      string `json:"preset,omitempty"` // render preset name, see config.RenderPreset
}
