package models

import (
	"time"

	"github.com/google/uuid"
)

// Project status constants, mirroring the engine API.
const (
	ProjectDraft     = "draft"
	ProjectAnalyzing = "analyzing"
	ProjectReady     = "ready"
	ProjectRendering = "rendering"
	ProjectArchived  = "archived"
)

// Aspect ratio presets accepted by the engine.
const (
	AspectLandscape = "16:9"
	AspectPortrait  = "9:16"
	AspectSquare    = "1:1"
)

// Project represents an editing project as reported by the engine.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	BeatRule    string    `json:"beat_rule"` // free text, parsed by internal/beatrule
	AspectRatio string    `json:"aspect_ratio"`
	MediaCount  int       `json:"media_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsEditable reports whether the project accepts media and rule changes.
func (p *Project) IsEditable() bool {
	return p.Status == ProjectDraft || p.Status == ProjectReady
}

// CreateProjectRequest is the payload for creating a project on the engine.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BeatRule    string `json:"beat_rule,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

// UpdateProjectRequest is the payload for updating project settings.
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	BeatRule    string `json:"beat_rule,omitempty"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}
