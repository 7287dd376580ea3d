package engine

import "errors"

// Sentinel errors mapped from engine API responses.
var (
	// Project errors
	ErrProjectNotFound = errors.New("project not found")
	ErrDuplicateName   = errors.New("project name already exists")

	// Media errors
	ErrMediaNotFound = errors.New("media asset not found")
	ErrAudioNotFound = errors.New("audio track not found")

	// Timeline errors
	ErrTimelineNotFound = errors.New("timeline not generated")

	// Render job errors
	ErrJobNotFound = errors.New("render job not found")

	// Transport errors
	ErrUnauthorized = errors.New("engine rejected credentials")
	ErrUnavailable  = errors.New("engine unavailable")
)
