package ports

import (
	"context"

	"github.com/draftforge/content-platform/internal/core/domain"
)

// ServiceHealth reports one backend dependency's health.
type ServiceHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// BackendHealth is the generation backend's health report.
type BackendHealth struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceHealth `json:"services"`
}

// GenerationBackend is the HTTP contract with the external generation
// service. Implementations surface domain.ErrBackendUnavailable on transport
// failures, domain.ErrValidationRejected on 400/422, domain.ErrGenerationNotFound
// on 404, and *domain.UpstreamError otherwise.
type GenerationBackend interface {
	CreateGeneration(ctx context.Context, in SubmitInput) (string, error)
	GetGeneration(ctx context.Context, requestID string) (*domain.Generation, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	ListStyleProfiles(ctx context.Context) ([]domain.StyleProfile, error)
	ListContent(ctx context.Context, userID string) ([]domain.ContentItem, error)
	PublishContent(ctx context.Context, contentID string) (*domain.ContentItem, error)
	Health(ctx context.Context) (*BackendHealth, error)
}
