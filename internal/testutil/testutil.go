// Package testutil provides test utilities and helpers.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"beatstitch/internal/models"
)

// EngineStub is an in-process fake of the analysis/render engine API.
// Tests register handlers per route pattern and point an engine.Client at
// URL.
type EngineStub struct {
	URL string

	mux    *http.ServeMux
	server *httptest.Server
}

// NewEngineStub starts a stub engine server. It is shut down automatically
// when the test finishes.
func NewEngineStub(t *testing.T) *EngineStub {
	t.Helper()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &EngineStub{
		URL:    server.URL,
		mux:    mux,
		server: server,
	}
}

// Handle registers a handler for a ServeMux pattern, e.g.
// "GET /api/projects" or "POST /api/projects/{id}/render".
func (s *EngineStub) Handle(pattern string, h http.HandlerFunc) {
	s.mux.HandleFunc(pattern, h)
}

// WriteOK writes a success envelope with the given payload.
func WriteOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"data":   data,
	})
}

// WriteErr writes an error envelope with the given HTTP status.
func WriteErr(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"status": "error",
		"error":  message,
	})
}

// Project returns a ready project fixture.
func Project(name string) models.Project {
	now := time.Now().UTC()
	return models.Project{
		ID:          uuid.New(),
		Name:        name,
		Status:      models.ProjectReady,
		BeatRule:    "every 4 beats",
		AspectRatio: models.AspectLandscape,
		MediaCount:  3,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// RenderJob returns a job fixture in the given status.
func RenderJob(projectID uuid.UUID, status string) models.RenderJob {
	return models.RenderJob{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Status:      status,
		SubmittedAt: time.Now().UTC(),
	}
}

// Timeline returns a two-segment timeline fixture at 120 BPM.
func Timeline(projectID uuid.UUID, beatsPerCut int) models.Timeline {
	interval := 60.0 / 120.0 * float64(beatsPerCut)
	return models.Timeline{
		ProjectID:        projectID,
		BPM:              120,
		BeatsPerCut:      beatsPerCut,
		TotalDurationSec: 2 * interval,
		Segments: []models.TimelineSegment{
			{MediaID: uuid.New(), Filename: "clip-a.mp4", StartSec: 0, EndSec: interval, StartBeat: 0, EndBeat: beatsPerCut},
			{MediaID: uuid.New(), Filename: "clip-b.mp4", StartSec: interval, EndSec: 2 * interval, StartBeat: beatsPerCut, EndBeat: 2 * beatsPerCut},
		},
	}
}
