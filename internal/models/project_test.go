package models

import "testing"

func TestProjectIsEditable(t *testing.T) {
	tests := []struct {
		status   string
		editable bool
	}{
		{ProjectDraft, true},
		{ProjectReady, true},
		{ProjectAnalyzing, false},
		{ProjectRendering, false},
		{ProjectArchived, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			p := Project{Status: tt.status}
			if got := p.IsEditable(); got != tt.editable {
				t.Errorf("IsEditable() with status %q = %v, want %v", tt.status, got, tt.editable)
			}
		})
	}
}
