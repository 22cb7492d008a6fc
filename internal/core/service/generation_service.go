package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
	"github.com/draftforge/content-platform/internal/metrics"
)

const awaitPollInterval = 2 * time.Second

// StatusCache abstracts the last-known-status snapshot store (Redis). It is
// best-effort: read/write failures degrade to the configured fallback.
type StatusCache interface {
	Get(ctx context.Context, requestID string) (*domain.Generation, error)
	Put(ctx context.Context, gen *domain.Generation) error
}

// GenerationService proxies submissions to the external generation backend
// and serves status polls with degraded-mode fallbacks.
type GenerationService struct {
	backend ports.GenerationBackend
	cache   StatusCache // optional
	// assumeCompleteOn404 preserves the legacy behavior of reporting a
	// request the backend no longer tracks as completed instead of failing
	// the poll. Off, a 404 surfaces as domain.ErrGenerationNotFound.
	assumeCompleteOn404 bool
	log                 zerolog.Logger
}

func NewGenerationService(backend ports.GenerationBackend, cache StatusCache, assumeCompleteOn404 bool, log zerolog.Logger) *GenerationService {
	return &GenerationService{
		backend:             backend,
		cache:               cache,
		assumeCompleteOn404: assumeCompleteOn404,
		log:                 log,
	}
}

// Submit validates required fields and forwards the request to the backend.
// No local state is created; the backend owns the generation lifecycle.
func (s *GenerationService) Submit(ctx context.Context, in ports.SubmitInput) (string, error) {
	if in.TemplateID == "" || in.StyleProfileID == "" {
		return "", domain.ErrValidationRejected
	}

	requestID, err := s.backend.CreateGeneration(ctx, in)
	if err != nil {
		metrics.GenerationSubmitErrorsTotal.WithLabelValues(errorReason(err)).Inc()
		s.log.Error().Err(err).Str("template_id", in.TemplateID).Msg("generation submit failed")
		return "", err
	}

	metrics.GenerationsSubmittedTotal.WithLabelValues(platformLabel(in.Platform)).Inc()
	s.log.Info().Str("request_id", requestID).Str("template_id", in.TemplateID).Msg("generation submitted")
	return requestID, nil
}

// Status returns the backend's view of a request. A 404 for a known id and
// an unreachable backend are both recovered locally rather than surfaced,
// when the fallback is enabled; the last cached snapshot is preferred over
// a synthesized one.
func (s *GenerationService) Status(ctx context.Context, requestID string) (*domain.Generation, error) {
	gen, err := s.backend.GetGeneration(ctx, requestID)
	if err == nil {
		metrics.StatusPollsTotal.WithLabelValues(string(gen.Status)).Inc()
		s.cachePut(ctx, gen)
		return gen, nil
	}

	switch {
	case errors.Is(err, domain.ErrGenerationNotFound):
		if !s.assumeCompleteOn404 {
			return nil, err
		}
		metrics.StatusPollsTotal.WithLabelValues("untracked").Inc()
		s.log.Warn().Str("request_id", requestID).Msg("request no longer tracked by backend, assuming complete")
		return &domain.Generation{
			RequestID: requestID,
			Status:    domain.StatusCompleted,
			Progress:  100,
			Message:   "generation no longer tracked by backend",
		}, nil

	case errors.Is(err, domain.ErrBackendUnavailable):
		metrics.StatusPollsTotal.WithLabelValues("degraded").Inc()
		if cached := s.cacheGet(ctx, requestID); cached != nil {
			cached.Message = "backend unreachable, serving last known status"
			return cached, nil
		}
		if !s.assumeCompleteOn404 {
			return nil, err
		}
		s.log.Warn().Str("request_id", requestID).Msg("backend unreachable with no cached status, assuming complete")
		return &domain.Generation{
			RequestID: requestID,
			Status:    domain.StatusCompleted,
			Progress:  100,
			Message:   "backend unreachable, status unknown",
		}, nil
	}

	return nil, err
}

// Await re-polls Status until the request reaches a terminal state, maxWait
// elapses, or ctx is cancelled. The last observed snapshot is returned even
// on timeout so the caller can render progress.
func (s *GenerationService) Await(ctx context.Context, requestID string, maxWait time.Duration) (*domain.Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	gen, err := s.Status(ctx, requestID)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(awaitPollInterval)
	defer ticker.Stop()

	for !gen.Status.IsTerminal() {
		select {
		case <-ctx.Done():
			return gen, nil
		case <-ticker.C:
		}

		next, err := s.Status(ctx, requestID)
		if err != nil {
			// Keep the last good snapshot on transient poll errors.
			if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(ctx.Err(), context.Canceled) {
				return gen, nil
			}
			return nil, err
		}
		gen = next
	}

	return gen, nil
}

func (s *GenerationService) cachePut(ctx context.Context, gen *domain.Generation) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, gen); err != nil {
		s.log.Warn().Err(err).Str("request_id", gen.RequestID).Msg("status cache write failed")
	}
}

func (s *GenerationService) cacheGet(ctx context.Context, requestID string) *domain.Generation {
	if s.cache == nil {
		return nil
	}
	gen, err := s.cache.Get(ctx, requestID)
	if err != nil {
		s.log.Warn().Err(err).Str("request_id", requestID).Msg("status cache read failed")
		return nil
	}
	return gen
}

func errorReason(err error) string {
	var upstream *domain.UpstreamError
	switch {
	case errors.Is(err, domain.ErrValidationRejected):
		return "validation_rejected"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return "backend_unavailable"
	case errors.As(err, &upstream):
		return "upstream_error"
	}
	return "unknown"
}

func platformLabel(platform string) string {
	if platform == "" {
		return "unspecified"
	}
	return platform
}
