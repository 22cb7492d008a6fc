// Package backend implements the HTTP client for the external generation
// service. It is the only place that speaks the backend's wire format; every
// call has one documented request/response schema and a bounded timeout.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/draftforge/content-platform/internal/core/domain"
	"github.com/draftforge/content-platform/internal/core/ports"
	"github.com/draftforge/content-platform/internal/metrics"
)

const defaultTimeout = 10 * time.Second

// Client talks to the generation backend over HTTP with a shared API key.
type Client struct {
	base   string
	apiKey string
	hc     *http.Client
}

// NewClient creates a backend client. A default timeout is applied when none
// is provided.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
	}
	return &Client{
		base:   baseURL,
		apiKey: apiKey,
		hc:     &http.Client{Transport: transport, Timeout: timeout},
	}
}

type createGenerationRequest struct {
	Template          string         `json:"template"`
	StyleProfile      string         `json:"style_profile"`
	DynamicParameters map[string]any `json:"dynamic_parameters,omitempty"`
	Platform          string         `json:"platform,omitempty"`
	UserID            string         `json:"user_id,omitempty"`
}

type createGenerationResponse struct {
	RequestID string `json:"request_id"`
}

func (c *Client) CreateGeneration(ctx context.Context, in ports.SubmitInput) (string, error) {
	req := createGenerationRequest{
		Template:          in.TemplateID,
		StyleProfile:      in.StyleProfileID,
		DynamicParameters: in.Parameters,
		Platform:          in.Platform,
		UserID:            in.UserID,
	}

	var resp createGenerationResponse
	if err := c.do(ctx, http.MethodPost, "/api/generate", req, &resp, "generate"); err != nil {
		return "", err
	}
	if resp.RequestID == "" {
		return "", &domain.UpstreamError{Status: http.StatusOK}
	}
	return resp.RequestID, nil
}

type generationStatusResponse struct {
	RequestID string         `json:"request_id"`
	Status    string         `json:"status"`
	Progress  int            `json:"progress"`
	Content   string         `json:"content,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

func (c *Client) GetGeneration(ctx context.Context, requestID string) (*domain.Generation, error) {
	var resp generationStatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/generate/"+url.PathEscape(requestID), nil, &resp, "status"); err != nil {
		return nil, err
	}

	return &domain.Generation{
		RequestID: requestID,
		Status:    domain.GenerationStatus(resp.Status),
		Progress:  resp.Progress,
		Content:   resp.Content,
		Metadata:  resp.Metadata,
	}, nil
}

type listTemplatesResponse struct {
	Templates []domain.Template `json:"templates"`
}

func (c *Client) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	var resp listTemplatesResponse
	if err := c.do(ctx, http.MethodGet, "/api/templates", nil, &resp, "templates"); err != nil {
		return nil, err
	}
	return resp.Templates, nil
}

type listStyleProfilesResponse struct {
	StyleProfiles []domain.StyleProfile `json:"style_profiles"`
}

func (c *Client) ListStyleProfiles(ctx context.Context) ([]domain.StyleProfile, error) {
	var resp listStyleProfilesResponse
	if err := c.do(ctx, http.MethodGet, "/api/style-profiles", nil, &resp, "style_profiles"); err != nil {
		return nil, err
	}
	return resp.StyleProfiles, nil
}

type listContentResponse struct {
	Content []domain.ContentItem `json:"content"`
}

func (c *Client) ListContent(ctx context.Context, userID string) ([]domain.ContentItem, error) {
	path := "/api/content?user_id=" + url.QueryEscape(userID)
	var resp listContentResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, "content"); err != nil {
		return nil, err
	}
	return resp.Content, nil
}

func (c *Client) PublishContent(ctx context.Context, contentID string) (*domain.ContentItem, error) {
	var item domain.ContentItem
	if err := c.do(ctx, http.MethodPost, "/api/content/"+url.PathEscape(contentID)+"/publish", nil, &item, "publish"); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) Health(ctx context.Context) (*ports.BackendHealth, error) {
	var health ports.BackendHealth
	if err := c.do(ctx, http.MethodGet, "/health", nil, &health, "health"); err != nil {
		return nil, err
	}
	return &health, nil
}

// do executes one backend call and maps the response onto the domain error
// taxonomy: transport failures → ErrBackendUnavailable, 400/422 →
// ErrValidationRejected, 404 → ErrGenerationNotFound, other non-2xx →
// *UpstreamError.
func (c *Client) do(ctx context.Context, method, path string, body, out any, endpoint string) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return domain.ErrBackendUnavailable
	}
	defer resp.Body.Close()

	outcome := "ok"
	if resp.StatusCode >= 400 {
		outcome = "error"
	}
	metrics.BackendRequestDuration.WithLabelValues(endpoint, outcome).Observe(time.Since(start).Seconds())

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return domain.ErrValidationRejected
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrGenerationNotFound
	default:
		return &domain.UpstreamError{Status: resp.StatusCode}
	}
}
