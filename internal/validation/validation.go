package validation

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxProjectNameLen caps project names at a display-friendly length.
const MaxProjectNameLen = 120

// MaxBeatRuleLen caps beat-rule text. The parser tolerates anything, but
// unbounded form input is not worth forwarding to the engine.
const MaxBeatRuleLen = 200

// Timeline zoom bounds (steps, not percentages).
const (
	MinZoom     = 1
	MaxZoom     = 8
	DefaultZoom = 3
)

// videoContentTypes lists accepted media upload content types.
var videoContentTypes = map[string]bool{
	"video/mp4":        true,
	"video/quicktime":  true,
	"video/webm":       true,
	"video/x-matroska": true,
	"image/jpeg":       true,
	"image/png":        true,
	"image/webp":       true,
}

// audioContentTypes lists accepted audio upload content types.
var audioContentTypes = map[string]bool{
	"audio/mpeg":  true,
	"audio/mp4":   true,
	"audio/aac":   true,
	"audio/wav":   true,
	"audio/x-wav": true,
	"audio/flac":  true,
	"audio/ogg":   true,
}

// videoExtensions and audioExtensions back up content-type checks, since
// browsers are unreliable about multipart content types.
var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".webm": true, ".mkv": true,
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
}

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".aac": true, ".wav": true, ".flac": true, ".ogg": true,
}

// ValidateProjectName checks that a project name is non-empty, within length
// limits, and free of control characters.
func ValidateProjectName(name string) (bool, string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return false, "Project name is required"
	}
	if utf8.RuneCountInString(trimmed) > MaxProjectNameLen {
		return false, "Project name is too long"
	}
	for _, r := range trimmed {
		if r < 0x20 || r == 0x7f {
			return false, "Project name contains invalid characters"
		}
	}
	return true, ""
}

// ValidateBeatRule checks beat-rule text length. Content is never rejected:
// the parser is total and unmatched text falls back to the default rule.
func ValidateBeatRule(rule string) (bool, string) {
	if utf8.RuneCountInString(rule) > MaxBeatRuleLen {
		return false, "Beat rule is too long"
	}
	return true, ""
}

// ValidateMediaUpload checks filename extension and content type for a video
// or image upload.
func ValidateMediaUpload(filename, contentType string) (bool, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !videoExtensions[ext] {
		return false, "Unsupported media file type"
	}
	if contentType != "" && !videoContentTypes[normalizeContentType(contentType)] {
		return false, "Unsupported media content type"
	}
	return true, ""
}

// ValidateAudioUpload checks filename extension and content type for an
// audio track upload.
func ValidateAudioUpload(filename, contentType string) (bool, string) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !audioExtensions[ext] {
		return false, "Unsupported audio file type"
	}
	if contentType != "" && !audioContentTypes[normalizeContentType(contentType)] {
		return false, "Unsupported audio content type"
	}
	return true, ""
}

// ClampZoom bounds a requested timeline zoom step.
func ClampZoom(zoom int) int {
	if zoom < MinZoom {
		return MinZoom
	}
	if zoom > MaxZoom {
		return MaxZoom
	}
	return zoom
}

// normalizeContentType strips parameters like "; charset=..." and lowercases.
func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
