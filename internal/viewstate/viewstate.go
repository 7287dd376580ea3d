// Package viewstate carries per-session, transient UI state: timeline zoom,
// in-progress drag-and-drop clip ordering, and the last viewed project.
// Nothing here is durable; the engine owns all persistent project state.
package viewstate

import (
	"encoding/json"

	"github.com/google/uuid"

	"beatstitch/internal/models"
	"beatstitch/internal/validation"
)

// SessionKey is the session entry under which the encoded state lives.
const SessionKey = "view_state"

// State is one session's UI state. It round-trips through the session store
// as a JSON string so it survives Redis-backed sessions unchanged.
type State struct {
	Zoom          int         `json:"zoom"`
	ClipOrder     []uuid.UUID `json:"clip_order,omitempty"`
	LastProjectID uuid.UUID   `json:"last_project_id,omitempty"`
}

// Default returns the initial state for a fresh session.
func Default() State {
	return State{Zoom: validation.DefaultZoom}
}

// Decode parses an encoded state. Malformed or empty input yields the
// default state rather than an error; view state is never worth failing a
// request over.
func Decode(raw string) State {
	if raw == "" {
		return Default()
	}
	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Default()
	}
	s.Zoom = validation.ClampZoom(s.Zoom)
	return s
}

// Encode serializes the state for session storage.
func (s State) Encode() string {
	buf, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(buf)
}

// SetZoom stores a clamped zoom step.
func (s *State) SetZoom(zoom int) {
	s.Zoom = validation.ClampZoom(zoom)
}

// ZoomIn and ZoomOut step the zoom level within bounds.
func (s *State) ZoomIn()  { s.SetZoom(s.Zoom + 1) }
func (s *State) ZoomOut() { s.SetZoom(s.Zoom - 1) }

// SetClipOrder records an in-progress drag-and-drop ordering for the
// current project.
func (s *State) SetClipOrder(projectID uuid.UUID, order []uuid.UUID) {
	s.LastProjectID = projectID
	s.ClipOrder = order
}

// ClearClipOrder drops the pending ordering, e.g. after it has been
// committed to the engine.
func (s *State) ClearClipOrder() {
	s.ClipOrder = nil
}

// ApplyOrder rearranges assets into the given ID order. IDs that no longer
// exist are skipped; assets absent from the order keep their relative
// position at the end. The input slice is not modified.
func ApplyOrder(assets []models.MediaAsset, order []uuid.UUID) []models.MediaAsset {
	if len(order) == 0 {
		return assets
	}

	byID := make(map[uuid.UUID]models.MediaAsset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	result := make([]models.MediaAsset, 0, len(assets))
	seen := make(map[uuid.UUID]bool, len(order))
	for _, id := range order {
		if a, ok := byID[id]; ok && !seen[id] {
			result = append(result, a)
			seen[id] = true
		}
	}
	for _, a := range assets {
		if !seen[a.ID] {
			result = append(result, a)
		}
	}
	return result
}
