// Package email implements verification email delivery through an external
// transactional mail API. Delivery is best-effort: callers treat failures as
// warnings and re-queue, never as registration errors.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

// Client sends mail through an HTTP mail provider with an API key.
type Client struct {
	base   string
	apiKey string
	from   string
	hc     *http.Client
}

// NewClient creates a mail client. A default timeout is applied when none is
// provided.
func NewClient(baseURL, apiKey, from string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		base:   baseURL,
		apiKey: apiKey,
		from:   from,
		hc:     &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// SendVerification delivers a verification email carrying the token.
func (c *Client) SendVerification(ctx context.Context, recipient, token string) error {
	req := sendRequest{
		From:    c.from,
		To:      recipient,
		Subject: "Verify your account",
		Text:    "Confirm your email address using this code: " + token,
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode email: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/v1/send", bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}
