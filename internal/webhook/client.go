package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/madisonlabs/marketlens/internal/config"
	"github.com/madisonlabs/marketlens/internal/model"
	"github.com/madisonlabs/marketlens/internal/report"
)

// Client issues the single outbound call to the analysis webhook. One call
// per user action, no retries: a failed call is reported and the user simply
// submits again.
type Client struct {
	cfg    config.WebhookConfig
	client *http.Client
	logger *slog.Logger
}

// NewClient creates a webhook client. cfg must already have passed
// Config.ValidateWebhook.
func NewClient(cfg config.WebhookConfig, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		cfg:    cfg,
		client: httpClient,
		logger: logger,
	}
}

// Fetch validates req, POSTs it as JSON with the configured auth header, and
// decodes the response into an AnalysisReport. Failures map to the error
// taxonomy: ValidationError (bad input, no call made), TransportError
// (network, timeout, non-2xx), ParseError (non-JSON or malformed body).
func (c *Client) Fetch(ctx context.Context, req model.AnalysisRequest) (*model.AnalysisReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create webhook request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(c.cfg.HeaderName, c.cfg.HeaderValue)

	c.logger.Debug("calling analysis webhook", "brand", req.Brand, "timeout", c.cfg.Timeout.String())

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, &model.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.TransportError{StatusCode: resp.StatusCode}
	}

	c.logger.Debug("webhook responded", "status", resp.StatusCode, "bytes", len(respBytes))

	return report.Decode(respBytes, "webhook")
}
