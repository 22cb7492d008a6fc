package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
)

type stubGenerationService struct {
	submitID   string
	submitErr  error
	submitIn   ports.SubmitInput
	gen        *domain.Generation
	statusErr  error
	awaitCalls int
	lastWait   time.Duration
}

func (s *stubGenerationService) Submit(_ context.Context, in ports.SubmitInput) (string, error) {
	s.submitIn = in
	return s.submitID, s.submitErr
}

func (s *stubGenerationService) Status(_ context.Context, _ string) (*domain.Generation, error) {
	return s.gen, s.statusErr
}

func (s *stubGenerationService) Await(_ context.Context, _ string, maxWait time.Duration) (*domain.Generation, error) {
	s.awaitCalls++
	s.lastWait = maxWait
	return s.gen, s.statusErr
}

func TestGenerationHandler_Submit(t *testing.T) {
	svc := &stubGenerationService{submitID: "req-9"}
	h := NewGenerationHandler(svc)

	c, rec := newEchoContext(t, http.MethodPost, "/v1/generations",
		`{"template_id":"tpl-1","style_profile_id":"sp-1","platform":"linkedin","dynamic_parameters":{"topic":"go"}}`)
	c.Set("identity", &domain.Identity{ID: "user-1"})

	if err := h.Submit(c); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var resp submitGenerationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RequestID != "req-9" || resp.Status != string(domain.StatusPending) {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.submitIn.UserID != "user-1" {
		t.Fatalf("submission must carry the authenticated user id, got %q", svc.submitIn.UserID)
	}
}

func TestGenerationHandler_Submit_MissingTemplate(t *testing.T) {
	h := NewGenerationHandler(&stubGenerationService{})

	c, _ := newEchoContext(t, http.MethodPost, "/v1/generations",
		`{"style_profile_id":"sp-1"}`)
	c.Set("identity", &domain.Identity{ID: "user-1"})

	err := h.Submit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestGenerationHandler_Submit_Unauthenticated(t *testing.T) {
	h := NewGenerationHandler(&stubGenerationService{})

	c, _ := newEchoContext(t, http.MethodPost, "/v1/generations",
		`{"template_id":"tpl-1","style_profile_id":"sp-1"}`)

	err := h.Submit(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestGenerationHandler_Submit_BackendUnavailable(t *testing.T) {
	h := NewGenerationHandler(&stubGenerationService{submitErr: domain.ErrBackendUnavailable})

	c, _ := newEchoContext(t, http.MethodPost, "/v1/generations",
		`{"template_id":"tpl-1","style_profile_id":"sp-1"}`)
	c.Set("identity", &domain.Identity{ID: "user-1"})

	if err := h.Submit(c); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable passthrough, got %v", err)
	}
}

func TestGenerationHandler_Status(t *testing.T) {
	svc := &stubGenerationService{gen: &domain.Generation{
		RequestID: "req-1",
		Status:    domain.StatusCompleted,
		Progress:  100,
		Content:   "draft text",
	}}
	h := NewGenerationHandler(svc)

	c, rec := newEchoContext(t, http.MethodGet, "/", "")
	c.SetParamNames("request_id")
	c.SetParamValues("req-1")

	if err := h.Status(c); err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp generationStatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "completed" || resp.Progress != 100 || resp.Content != "draft text" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestGenerationHandler_Wait_TimeoutParam(t *testing.T) {
	svc := &stubGenerationService{gen: &domain.Generation{
		RequestID: "req-1",
		Status:    domain.StatusCompleted,
	}}
	h := NewGenerationHandler(svc)

	c, _ := newEchoContext(t, http.MethodGet, "/?timeout=5s", "")
	c.SetParamNames("request_id")
	c.SetParamValues("req-1")

	if err := h.Wait(c); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if svc.lastWait != 5*time.Second {
		t.Fatalf("expected 5s wait budget, got %v", svc.lastWait)
	}

	// Budget is capped.
	c, _ = newEchoContext(t, http.MethodGet, "/?timeout=10m", "")
	c.SetParamNames("request_id")
	c.SetParamValues("req-1")
	if err := h.Wait(c); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if svc.lastWait != maxAwait {
		t.Fatalf("expected capped wait %v, got %v", maxAwait, svc.lastWait)
	}
}

func TestGenerationHandler_Wait_InvalidTimeout(t *testing.T) {
	h := NewGenerationHandler(&stubGenerationService{})

	c, _ := newEchoContext(t, http.MethodGet, "/?timeout=bogus", "")
	c.SetParamNames("request_id")
	c.SetParamValues("req-1")

	err := h.Wait(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
