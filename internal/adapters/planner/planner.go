// Package planner is the HTTP client for the external query planning
// service. The service turns a scout's profile and free-text query into a
// textual response expected to contain a JSON plan; everything it returns
// is untrusted input, parsed defensively upstream.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/jakedibattista/Scout/internal/domain/model"
)

// Default client configuration constants.
const (
	defaultModel      = "scout-query-v1"
	defaultRatePerSec = 5
	defaultBurst      = 5
	maxResponseBytes  = 1 << 20
)

// planRequest is the wire shape sent to the planning service.
type planRequest struct {
	Model            string                 `json:"model"`
	ScoutPreferences model.ScoutPreferences `json:"scoutPreferences"`
	QueryText        string                 `json:"queryText"`
}

// planResponse is the wire shape returned by the planning service.
type planResponse struct {
	Text string `json:"text"`
}

// HTTPClient calls the planning service over HTTP. It implements
// plan.Client.
type HTTPClient struct {
	baseURL string
	model   string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewHTTPClient creates a planner client for the given base URL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: baseURL,
		model:   defaultModel,
		httpc:   http.DefaultClient,
		limiter: rate.NewLimiter(defaultRatePerSec, defaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Plan posts the scout's preferences and query text and returns the
// service's raw textual response.
func (c *HTTPClient) Plan(ctx context.Context, prefs model.ScoutPreferences, query string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("planner rate limit: %w", err)
	}

	body, err := json.Marshal(planRequest{
		Model:            c.model,
		ScoutPreferences: prefs,
		QueryText:        query,
	})
	if err != nil {
		return "", fmt.Errorf("encode plan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/plan", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build plan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call planner: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		// The status code stays in the message so the retry layer can
		// classify 503/504 as transient.
		return "", fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read planner response: %w", err)
	}

	var parsed planResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// Some deployments return the text body directly.
		return string(raw), nil
	}
	return parsed.Text, nil
}
