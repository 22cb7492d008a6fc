package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
)

func TestClient_CreateGeneration(t *testing.T) {
	var gotAuth string
	var gotBody createGenerationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(createGenerationResponse{RequestID: "req-7"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", time.Second)
	requestID, err := c.CreateGeneration(context.Background(), ports.SubmitInput{
		TemplateID:     "tpl-1",
		StyleProfileID: "sp-1",
		Parameters:     map[string]any{"topic": "go"},
		Platform:       "linkedin",
		UserID:         "user-1",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if requestID != "req-7" {
		t.Fatalf("expected req-7, got %q", requestID)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer api key, got %q", gotAuth)
	}
	if gotBody.Template != "tpl-1" || gotBody.StyleProfile != "sp-1" || gotBody.UserID != "user-1" {
		t.Fatalf("unexpected wire payload: %+v", gotBody)
	}
}

func TestClient_CreateGeneration_MissingRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(createGenerationResponse{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	_, err := c.CreateGeneration(context.Background(), ports.SubmitInput{TemplateID: "t", StyleProfileID: "s"})
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected upstream error for empty request_id, got %v", err)
	}
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad request", http.StatusBadRequest, domain.ErrValidationRejected},
		{"unprocessable", http.StatusUnprocessableEntity, domain.ErrValidationRejected},
		{"not found", http.StatusNotFound, domain.ErrGenerationNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "k", time.Second)
			_, err := c.GetGeneration(context.Background(), "req-1")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	_, err := c.GetGeneration(context.Background(), "req-1")
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) || upstream.Status != http.StatusInternalServerError {
		t.Fatalf("expected upstream 500, got %v", err)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "k", time.Second)
	_, err := c.GetGeneration(context.Background(), "req-1")
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestClient_GetGeneration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate/req-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(generationStatusResponse{
			RequestID: "req-1",
			Status:    "processing",
			Progress:  55,
			Metadata:  map[string]any{"model": "v2"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	gen, err := c.GetGeneration(context.Background(), "req-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if gen.Status != domain.StatusProcessing || gen.Progress != 55 {
		t.Fatalf("unexpected generation: %+v", gen)
	}
}

func TestClient_ListContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/content" || r.URL.Query().Get("user_id") != "user-1" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		_ = json.NewEncoder(w).Encode(listContentResponse{
			Content: []domain.ContentItem{{ID: "c1"}, {ID: "c2"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	items, err := c.ListContent(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != "c1" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(ports.BackendHealth{
			Status: "ok",
			Services: map[string]ports.ServiceHealth{
				"llm": {Status: "ok", LatencyMS: 12},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", time.Second)
	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if health.Status != "ok" || health.Services["llm"].LatencyMS != 12 {
		t.Fatalf("unexpected health: %+v", health)
	}
}
