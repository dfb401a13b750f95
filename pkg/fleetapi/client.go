package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/simshield/simshield-console/pkg/models"
)

// ErrNotFound is returned when the backend has no resource for the request,
// e.g. a SIM that has never been analyzed
var ErrNotFound = errors.New("not found")

// APIError carries the HTTP status of a failed backend call
type APIError struct {
	Status     int
	StatusText string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.Status, e.StatusText)
}

// Client talks to the SimShield backend HTTP API
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a backend API client for the given origin
func NewClient(origin string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(origin, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// WebSocketURL derives the live alert feed URL from the backend origin,
// switching to wss when the origin is served over TLS
func WebSocketURL(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("invalid backend origin %q: %w", origin, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported backend scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/v1/ws/alerts"
	return u.String(), nil
}

// Fleet fetches the fleet overview. The backend serves either a bare array
// or an object wrapping it; both shapes are normalized here so nothing
// downstream has to care.
func (c *Client) Fleet(ctx context.Context) ([]models.SimSummary, error) {
	body, err := c.get(ctx, "/api/v1/fleet")
	if err != nil {
		return nil, err
	}

	var sims []models.SimSummary
	if err := json.Unmarshal(body, &sims); err == nil {
		return sims, nil
	}
	var wrapped struct {
		Sims []models.SimSummary `json:"sims"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode fleet response: %w", err)
	}
	return wrapped.Sims, nil
}

// Usage fetches the usage history of a SIM for the last N days
func (c *Client) Usage(ctx context.Context, simID string, days int) ([]models.UsagePoint, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/usage/%s?days=%d", url.PathEscape(simID), days))
	if err != nil {
		return nil, err
	}

	var points []models.UsagePoint
	if err := json.Unmarshal(body, &points); err == nil {
		return points, nil
	}
	var wrapped struct {
		Usage []models.UsagePoint `json:"usage"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode usage response: %w", err)
	}
	return wrapped.Usage, nil
}

// Analyze triggers a fresh anomaly analysis for a SIM
func (c *Client) Analyze(ctx context.Context, simID string) (*models.AnalysisResult, error) {
	body, err := c.post(ctx, fmt.Sprintf("/api/v1/analyze/%s", url.PathEscape(simID)), nil)
	if err != nil {
		return nil, err
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return &result, nil
}

// LatestAnalysis fetches the most recent analysis for a SIM. Returns
// ErrNotFound when the SIM has never been analyzed.
func (c *Client) LatestAnalysis(ctx context.Context, simID string) (*models.AnalysisResult, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/analyze/%s/latest", url.PathEscape(simID)))
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("no analysis for %s: %w", simID, ErrNotFound)
		}
		return nil, err
	}
	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}
	return &result, nil
}

// DispatchAction applies a manual remediation action to one or more SIMs
func (c *Client) DispatchAction(ctx context.Context, req models.ActionRequest) (*models.ActionResponse, error) {
	body, err := c.post(ctx, "/api/v1/actions", req)
	if err != nil {
		return nil, err
	}
	var resp models.ActionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode action response: %w", err)
	}
	return &resp, nil
}

// BestOptions fetches the ranked plan/addon candidates for a SIM
func (c *Client) BestOptions(ctx context.Context, simID string) ([]models.PlanOption, error) {
	body, err := c.get(ctx, fmt.Sprintf("/api/v1/best-options/%s", url.PathEscape(simID)))
	if err != nil {
		return nil, err
	}
	var options []models.PlanOption
	if err := json.Unmarshal(body, &options); err != nil {
		return nil, fmt.Errorf("failed to decode best-options response: %w", err)
	}
	return options, nil
}

// WhatIf asks the backend to project a usage scenario for a SIM
func (c *Client) WhatIf(ctx context.Context, simID string, req models.WhatIfRequest) (*models.WhatIfResult, error) {
	body, err := c.post(ctx, fmt.Sprintf("/api/v1/whatif/%s", url.PathEscape(simID)), req)
	if err != nil {
		return nil, err
	}
	var result models.WhatIfResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode what-if response: %w", err)
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read backend response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logrus.Debugf("Backend %s %s returned %s", req.Method, req.URL.Path, resp.Status)
		return nil, &APIError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
	}
	return body, nil
}
