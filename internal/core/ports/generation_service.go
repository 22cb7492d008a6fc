package ports

import (
	"context"
	"time"

	"github.com/draftforge/content-platform/internal/core/domain"
)

// SubmitInput carries a validated generation submission.
type SubmitInput struct {
	TemplateID     string
	StyleProfileID string
	Parameters     map[string]any
	Platform       string
	UserID         string
}

type GenerationService interface {
	// Submit forwards the request to the generation backend and returns the
	// backend-assigned request id.
	Submit(ctx context.Context, in SubmitInput) (string, error)
	// Status returns the current backend view of a request, applying the
	// configured fallback when the backend no longer tracks it or is
	// unreachable.
	Status(ctx context.Context, requestID string) (*domain.Generation, error)
	// Await re-polls Status on a fixed interval until the request reaches a
	// terminal state, maxWait elapses, or ctx is cancelled. The last observed
	// snapshot is returned in every case.
	Await(ctx context.Context, requestID string, maxWait time.Duration) (*domain.Generation, error)
}
