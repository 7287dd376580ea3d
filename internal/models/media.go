package models

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// MediaAsset represents an uploaded video clip or image belonging to a project.
type MediaAsset struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	DurationSec float64   `json:"duration_sec"` // 0 for still images
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	SortOrder   int       `json:"sort_order"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// HumanSize returns the asset size formatted for display, e.g. "4.2 MB".
func (m *MediaAsset) HumanSize() string {
	return humanize.Bytes(uint64(m.SizeBytes))
}

// IsVideo reports whether the asset is a video clip rather than a still image.
func (m *MediaAsset) IsVideo() bool {
	return m.DurationSec > 0
}

// AudioTrack analysis status constants.
const (
	AudioPending   = "pending"
	AudioAnalyzing = "analyzing"
	AudioReady     = "ready"
	AudioFailed    = "failed"
)

// AudioTrack represents the music track driving a project's cuts.
// BPM and BeatCount are populated once the engine finishes beat detection.
type AudioTrack struct {
	ID          uuid.UUID  `json:"id"`
	ProjectID   uuid.UUID  `json:"project_id"`
	Filename    string     `json:"filename"`
	SizeBytes   int64      `json:"size_bytes"`
	DurationSec float64    `json:"duration_sec"`
	BPM         float64    `json:"bpm"`
	BeatCount   int        `json:"beat_count"`
	Status      string     `json:"status"`
	AnalyzedAt  *time.Time `json:"analyzed_at"`
}

// IsAnalyzed reports whether beat detection has completed.
func (a *AudioTrack) IsAnalyzed() bool {
	return a.Status == AudioReady
}

// HumanSize returns the track size formatted for display.
func (a *AudioTrack) HumanSize() string {
	return humanize.Bytes(uint64(a.SizeBytes))
}
