package domain

import (
	"errors"
	"fmt"
)

// GenerationStatus represents the lifecycle state of a generation request.
// The state machine is owned by the external backend; this service only
// observes it.
type GenerationStatus string

const (
	StatusPending    GenerationStatus = "pending"
	StatusProcessing GenerationStatus = "processing"
	StatusCompleted  GenerationStatus = "completed"
	StatusFailed     GenerationStatus = "failed"
	StatusCancelled  GenerationStatus = "cancelled"
)

// IsTerminal reports whether no further progress updates can occur.
func (s GenerationStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

var ErrBackendUnavailable = errors.New("generation backend unavailable")
var ErrValidationRejected = errors.New("generation request rejected")
var ErrGenerationNotFound = errors.New("generation request not found")

// UpstreamError wraps a non-success backend response that is neither a
// validation rejection nor a missing request.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("generation backend returned status %d", e.Status)
}

// Generation is the client-observed view of a request tracked by the backend.
// Read-only here; immutable once Status is terminal.
type Generation struct {
	RequestID      string           `json:"request_id"`
	TemplateID     string           `json:"template_id,omitempty"`
	StyleProfileID string           `json:"style_profile_id,omitempty"`
	Platform       string           `json:"platform,omitempty"`
	Status         GenerationStatus `json:"status"`
	Progress       int              `json:"progress"`
	Content        string           `json:"content,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	Message        string           `json:"message,omitempty"`
}
