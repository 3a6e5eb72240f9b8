// Package webhook submits completed surveys to the external workflow
// endpoint and interprets its response.
//
// The contract is a single synchronous POST: no retry, no backoff, no
// timeout override beyond the HTTP client's default. All failures come back
// wrapped in the models error taxonomy so the dispatcher can categorize them
// for the user.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	resty "resty.dev/v3"

	"github.com/bookforge/BookForge/internal/models"
)

// Opts holds configuration for a webhook Client.
type Opts struct {
	// Endpoint is the workflow webhook URL. May be empty; submission then
	// fails with a configuration error at submit time, per contract.
	Endpoint string
}

// Option configures a webhook Client.
type Option func(*Opts)

// WithEndpoint sets the workflow webhook URL.
func WithEndpoint(url string) Option {
	return func(o *Opts) { o.Endpoint = url }
}

// Client is the submission gateway to the workflow webhook.
type Client struct {
	endpoint string
	http     *resty.Client
}

// NewClient creates a webhook client with the given options.
func NewClient(opts ...Option) *Client {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("Creating webhook Client", "endpoint_set", cfg.Endpoint != "")
	return &Client{endpoint: cfg.Endpoint, http: resty.New()}
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.http.Close()
}

// Submit POSTs the completed session to the workflow endpoint and returns
// the generated book text. sessionID is the correlation identifier of the
// originating conversation.
func (c *Client) Submit(ctx context.Context, s *models.SurveySession, sessionID string) (string, error) {
	if c.endpoint == "" {
		slog.Error("Webhook Submit without configured endpoint")
		return "", fmt.Errorf("%w: WEBHOOK_URL is not set", models.ErrConfig)
	}

	payload := models.PayloadFromSession(s, sessionID)
	slog.Info("Webhook Submit", "user_id", s.UserID, "session_id", sessionID, "format", s.BookFormat)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.endpoint)
	if err != nil {
		slog.Error("Webhook request failed", "error", err, "user_id", s.UserID)
		return "", fmt.Errorf("%w: request failed: %w", models.ErrUpstream, err)
	}
	if !resp.IsSuccess() {
		slog.Error("Webhook returned non-success status", "status", resp.StatusCode(), "user_id", s.UserID)
		return "", fmt.Errorf("%w: status %d", models.ErrUpstream, resp.StatusCode())
	}

	wr, err := parseWorkflowResponse(resp.Bytes())
	if err != nil {
		slog.Error("Webhook response malformed", "error", err, "user_id", s.UserID)
		return "", err
	}
	slog.Info("Webhook Submit succeeded", "user_id", s.UserID, "text_length", len(wr.BookText))
	return wr.BookText, nil
}

// parseWorkflowResponse normalizes the webhook reply. The body may be the
// response object itself or a one-element array containing it; both shapes
// are accepted. A reply without the success marker or the text payload is an
// upstream error.
func parseWorkflowResponse(body []byte) (models.WorkflowResponse, error) {
	var wr models.WorkflowResponse
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []models.WorkflowResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return wr, fmt.Errorf("%w: undecodable response body: %w", models.ErrUpstream, err)
		}
		if len(list) == 0 {
			return wr, fmt.Errorf("%w: empty response array", models.ErrUpstream)
		}
		wr = list[0]
	} else if err := json.Unmarshal(trimmed, &wr); err != nil {
		return wr, fmt.Errorf("%w: undecodable response body: %w", models.ErrUpstream, err)
	}

	if !wr.OK {
		return wr, fmt.Errorf("%w: workflow reported failure", models.ErrUpstream)
	}
	if wr.BookText == "" {
		return wr, fmt.Errorf("%w: response missing bookText", models.ErrUpstream)
	}
	return wr, nil
}
